package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var defaultTerms = []string{"druid", "dubbo", "elasticsearch", "flink", "flume", "kafka", "log4j", "logstash", "solr", "struts"}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		terms       []string
		want        Result
	}{
		{
			name:        "no watch term",
			displayName: "commons-io 2.11.0",
			terms:       defaultTerms,
			want:        NoMatch,
		},
		{
			name:        "no watch term with bracket",
			displayName: "commons-io 2.11.0 [bundled with guava 31]",
			terms:       defaultTerms,
			want:        NoMatch,
		},
		{
			name:        "term without bracket",
			displayName: "kafka-clients-2.1",
			terms:       defaultTerms,
			want:        Direct,
		},
		{
			name:        "case insensitive",
			displayName: "Apache Log4J Core 2.14.1",
			terms:       []string{"LOG4J"},
			want:        Direct,
		},
		{
			name:        "term before bracket",
			displayName: "log4j-core-2.14 [bundled with struts-1.0]",
			terms:       []string{"log4j", "struts"},
			want:        Direct,
		},
		{
			name:        "term only inside bracket",
			displayName: "commons-lang [found in: elasticsearch]",
			terms:       []string{"elasticsearch"},
			want:        TransitiveOnly,
		},
		{
			name:        "bracketed term is transitive on its own",
			displayName: "log4j-core-2.14 [bundled with struts-1.0]",
			terms:       []string{"struts"},
			want:        TransitiveOnly,
		},
		{
			name:        "first term in watch-list order decides",
			displayName: "log4j-core-2.14 [bundled with struts-1.0]",
			terms:       []string{"struts", "log4j"},
			want:        TransitiveOnly,
		},
		{
			name:        "term starting at the bracket",
			displayName: "[solr] distribution",
			terms:       []string{"solr"},
			want:        TransitiveOnly,
		},
		{
			name:        "first occurrence counts when term repeats",
			displayName: "flink-runtime [flink-shaded]",
			terms:       []string{"flink"},
			want:        Direct,
		},
		{
			name:        "empty terms are ignored",
			displayName: "anything",
			terms:       []string{""},
			want:        NoMatch,
		},
		{
			name:        "no terms",
			displayName: "kafka",
			want:        NoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.displayName, tt.terms)
			assert.Equal(t, tt.want, got, tt.want.String())

			// pure function of its inputs
			assert.Equal(t, got, Classify(tt.displayName, tt.terms))
		})
	}
}

func TestMatcher_Match(t *testing.T) {
	m := NewMatcher([]string{"Struts", "log4j"})

	term, r := m.Match("log4j-core-2.14 [bundled with struts-1.0]")
	assert.Equal(t, "struts", term)
	assert.Equal(t, TransitiveOnly, r)

	term, r = m.Match("log4j-api")
	assert.Equal(t, "log4j", term)
	assert.Equal(t, Direct, r)

	term, r = m.Match("guava")
	assert.Empty(t, term)
	assert.Equal(t, NoMatch, r)

	assert.Equal(t, []string{"struts", "log4j"}, m.Terms())
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "direct", Direct.String())
	assert.Equal(t, "transitive-only", TransitiveOnly.String())
	assert.Equal(t, "no match", NoMatch.String())
}
