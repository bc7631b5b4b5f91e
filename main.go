package main

import (
	"context"
	"io"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
	"golang.org/x/xerrors"

	"github.com/codeinsight-tools/inventory-audit/audit"
	"github.com/codeinsight-tools/inventory-audit/catalog"
	"github.com/codeinsight-tools/inventory-audit/match"
	"github.com/codeinsight-tools/inventory-audit/report"
	"github.com/codeinsight-tools/inventory-audit/utils"
	"github.com/codeinsight-tools/inventory-audit/watchlist"
)

const (
	envPrefix        = "CODEINSIGHT"
	defaultOutput    = "inventory_search_results.csv"
	defaultLogFile   = "_inventory_search.log"
	defaultTimeout   = 60 * time.Second
	defaultParallel  = 1
	defaultRetry     = 0
	defaultConfigEnv = "CODEINSIGHT_CONFIG"
)

var rootCmd = &cobra.Command{
	Use:   "inventory-audit",
	Short: "Search Code Insight project inventories for watch-listed components",
	Long: `inventory-audit walks every project of a Code Insight server, collects its
inventory summary and reports inventory items whose name matches a watch-list
of security-sensitive open source components.

Items where the watched component is only mentioned inside a bracketed
annotation (e.g. "commons-lang [found in: elasticsearch]") are not reported.

Settings can also be given as CODEINSIGHT_* environment variables
(CODEINSIGHT_URL, CODEINSIGHT_TOKEN, ...) or in a YAML file passed with --config.`,
	SilenceUsage: true,
}

func init() {
	// RunE is set here to avoid an initialization cycle through ignoreList.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	}

	f := rootCmd.Flags()
	f.String("config", utils.LookupEnv(defaultConfigEnv, ""), "YAML config file")
	f.String("url", "", "Code Insight base URL, e.g. https://codeinsight.example.com")
	f.String("token", "", "Code Insight bearer token")
	f.String("watchlist", "", "YAML watch-list file (defaults to the built-in list)")
	f.StringSlice("ignore", nil, "project names to skip")
	f.String("output", defaultOutput, "CSV report path, a .zst suffix compresses it")
	f.String("log-file", defaultLogFile, "log file path, empty to log to stderr only")
	f.Duration("timeout", defaultTimeout, "timeout of a single request")
	f.Int("retry", defaultRetry, "retries of a failed request")
	f.Int("parallel", defaultParallel, "number of projects examined at once")
	f.Bool("progress", isatty.IsTerminal(os.Stderr.Fd()), "show a progress bar")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(f); err != nil {
		log.Fatal(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) (err error) {
	appFs := afero.NewOsFs()

	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return xerrors.Errorf("failed to read config %s: %w", path, err)
		}
	}

	summary := io.Writer(os.Stdout)
	if logFile := viper.GetString("log-file"); logFile != "" {
		f, ferr := appFs.Create(logFile)
		if ferr != nil {
			return xerrors.Errorf("failed to create log file: %w", ferr)
		}
		defer func() {
			// main reports err on stderr after the file is closed
			if err != nil {
				log.New(f, "", log.LstdFlags).Print(err)
			}
			log.SetOutput(os.Stderr)
			f.Close()
		}()
		log.SetOutput(io.MultiWriter(os.Stderr, f))
		summary = io.MultiWriter(os.Stdout, f)
	}

	baseURL := strings.TrimRight(viper.GetString("url"), "/")
	token := viper.GetString("token")
	if baseURL == "" || token == "" {
		return xerrors.New("url and token must be specified")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return xerrors.Errorf("invalid url: %w", err)
	}

	terms := watchlist.Default
	ignored := ignoreList()
	if path := viper.GetString("watchlist"); path != "" {
		wl, err := watchlist.Load(appFs, path)
		if err != nil {
			return err
		}
		terms = wl.Terms
		ignored = append(ignored, wl.IgnoredProjects...)
	}
	log.Printf("watch-list: %s", strings.Join(terms, ", "))

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := catalog.NewClient(u, ts,
		catalog.WithTimeout(viper.GetDuration("timeout")),
		catalog.WithRetry(viper.GetInt("retry")),
	)

	auditor := audit.New(client, match.NewMatcher(terms), baseURL,
		audit.WithIgnoredProjects(ignored),
		audit.WithParallel(viper.GetInt("parallel")),
		audit.WithProgress(viper.GetBool("progress")),
	)

	result, err := auditor.Run(ctx)
	if err != nil {
		return xerrors.Errorf("audit error: %w", err)
	}

	output := viper.GetString("output")
	if err = report.WriteCSV(appFs, output, result.Hits); err != nil {
		return err
	}
	log.Printf("report written to %s", output)

	report.PrintSummary(summary, result)
	return nil
}

// ignoreList reads --ignore. viper splits an env value on whitespace, so
// CODEINSIGHT_IGNORE is split on commas here to keep names like "PROJECT 1".
func ignoreList() []string {
	if v, ok := os.LookupEnv(envPrefix + "_IGNORE"); ok && !rootCmd.Flags().Changed("ignore") {
		return splitList(v)
	}
	return viper.GetStringSlice("ignore")
}

func splitList(v string) []string {
	return lo.FilterMap(strings.Split(v, ","), func(name string, _ int) (string, bool) {
		name = strings.TrimSpace(name)
		return name, name != ""
	})
}
