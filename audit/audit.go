package audit

import (
	"context"
	"log"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/codeinsight-tools/inventory-audit/catalog"
	"github.com/codeinsight-tools/inventory-audit/match"
)

// Catalog is the part of the catalog client the audit needs.
type Catalog interface {
	ListProjects(ctx context.Context) ([]catalog.Project, error)
	ContactEmail(ctx context.Context, login string) (string, error)
	FetchAllInventory(ctx context.Context, projectID int) ([]catalog.InventoryItem, error)
}

// Hit is one directly matched inventory item.
type Hit struct {
	Project      catalog.Project
	ContactEmail string
	Item         catalog.InventoryItem
	Term         string
	URL          string
}

// Result is the outcome of one audit run.
type Result struct {
	Hits    []Hit
	// Skipped lists projects whose inventory could not be collected and need a manual review.
	Skipped []string
	Ignored []string

	ProjectsExamined int
	ItemsSeen        int
}

type Option func(*Auditor)

// WithIgnoredProjects skips projects by exact name.
func WithIgnoredProjects(names []string) Option {
	return func(a *Auditor) { a.ignored = names }
}

// WithParallel examines up to n projects at once. Pages of a single project
// are always fetched in order.
func WithParallel(n int) Option {
	return func(a *Auditor) {
		if n > 0 {
			a.parallel = n
		}
	}
}

// WithProgress shows a progress bar over projects on stderr.
func WithProgress(enabled bool) Option {
	return func(a *Auditor) { a.progress = enabled }
}

type Auditor struct {
	catalog  Catalog
	matcher  *match.Matcher
	linkBase string

	ignored  []string
	parallel int
	progress bool
}

// New returns an Auditor. linkBase is the catalog base URL used for deep links.
func New(c Catalog, matcher *match.Matcher, linkBase string, opts ...Option) *Auditor {
	a := &Auditor{
		catalog:  c,
		matcher:  matcher,
		linkBase: linkBase,
		parallel: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type outcome struct {
	hits    []Hit
	items   int
	skipped bool
	ignored bool
}

// Run audits every project. Failing to list projects or to resolve a
// contact aborts the run; an inventory failure only skips its project.
func (a *Auditor) Run(ctx context.Context) (*Result, error) {
	log.Print("Collecting project listing")
	projects, err := a.catalog.ListProjects(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to list projects: %w", err)
	}

	contacts := NewContactCache(a.catalog.ContactEmail)
	outcomes := make([]outcome, len(projects))

	var bar *pb.ProgressBar
	if a.progress {
		bar = pb.StartNew(len(projects))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallel)
	for i, project := range projects {
		i, project := i, project
		g.Go(func() error {
			if bar != nil {
				defer bar.Increment()
			}
			o, err := a.examine(gctx, contacts, project, i+1, len(projects))
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	err = g.Wait()
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for i, o := range outcomes {
		name := projects[i].Name
		switch {
		case o.ignored:
			result.Ignored = append(result.Ignored, name)
			continue
		case o.skipped:
			result.Skipped = append(result.Skipped, name)
		}
		result.ProjectsExamined++
		result.ItemsSeen += o.items
		result.Hits = append(result.Hits, o.hits...)
	}

	log.Printf("Examined %d projects, %d inventory items, %d hits", result.ProjectsExamined, result.ItemsSeen, len(result.Hits))
	return result, nil
}

func (a *Auditor) examine(ctx context.Context, contacts *ContactCache, project catalog.Project, index, total int) (outcome, error) {
	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}

	if slices.Contains(a.ignored, project.Name) {
		log.Printf("***  Ignoring project %s  --  Project %d of %d", project.Name, index, total)
		return outcome{ignored: true}, nil
	}
	log.Printf("Examining project %s  --  Project %d of %d", project.Name, index, total)

	email, err := contacts.Email(ctx, project.Owner)
	if err != nil {
		return outcome{}, xerrors.Errorf("failed to resolve contact %q of project %s: %w", project.Owner, project.Name, err)
	}

	items, err := a.catalog.FetchAllInventory(ctx, project.ID)
	if err != nil {
		if ctx.Err() != nil {
			return outcome{}, ctx.Err()
		}
		log.Printf("    *** Skipping project %s: %s", project.Name, err)
		return outcome{skipped: true}, nil
	}

	log.Printf("    Searching %d inventory items for components containing search terms", len(items))
	o := outcome{items: len(items)}
	for _, item := range items {
		term, r := a.matcher.Match(item.Name)
		switch r {
		case match.Direct:
			o.hits = append(o.hits, Hit{
				Project:      project,
				ContactEmail: email,
				Item:         item,
				Term:         term,
				URL:          DeepLink(a.linkBase, project.ID, item.ID),
			})
		case match.TransitiveOnly:
			log.Printf("    %s only referenced in annotation of %q, ignoring", term, item.Name)
		}
	}
	return o, nil
}
