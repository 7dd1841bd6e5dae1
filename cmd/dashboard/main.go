// Command dashboard prints the expert inspection table for a catalogue file:
// objects ranked by inspection priority, with search, sorting and paging.
//
// Usage:
//
//	go run ./cmd/dashboard \
//	  -in data/mock/water_objects.json \
//	  -user expert -password expert123 \
//	  -sort priority_score -order desc -page 1
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gidroatlas/water-objects-etl/internal/catalog"
	"github.com/gidroatlas/water-objects-etl/internal/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "path to the raw catalogue JSON")
	user := fs.String("user", "", "account name")
	password := fs.String("password", "", "account password")
	search := fs.String("search", "", "case-insensitive name or region substring")
	sortField := fs.String("sort", "", "sort column (default priority_score)")
	order := fs.String("order", "", "asc or desc")
	page := fs.Int("page", 1, "page number, 1-based")
	region := fs.String("region", "", "only objects in this region")
	categories := fs.String("category", "", "comma-separated condition categories, e.g. 4,5")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *in == "" {
		fs.Usage()
		return 2
	}

	objects, err := loadObjects(*in)
	if err != nil {
		fmt.Fprintf(stderr, "dashboard: %v\n", err)
		return 1
	}

	state := catalog.NewState(catalog.DefaultAccounts())
	if err := state.Login(*user, *password); err != nil {
		fmt.Fprintf(stderr, "dashboard: %v\n", err)
		return 1
	}

	patch := catalog.FilterPatch{Region: region}
	if *categories != "" {
		cats, err := parseCategories(*categories)
		if err != nil {
			fmt.Fprintf(stderr, "dashboard: %v\n", err)
			return 2
		}
		patch.ConditionCategories = &cats
	}
	if err := state.SetFilters(patch); err != nil {
		fmt.Fprintf(stderr, "dashboard: %v\n", err)
		return 2
	}
	objects = catalog.Apply(objects, state.Filters())

	result, err := state.Dashboard(objects, catalog.DashboardQuery{
		Search: *search,
		Sort:   catalog.SortField(*sortField),
		Order:  catalog.SortOrder(*order),
		Page:   *page,
	}, domain.Now())
	if errors.Is(err, catalog.ErrForbidden) {
		fmt.Fprintln(stderr, "dashboard: expert access required")
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "dashboard: %v\n", err)
		return 2
	}

	printPage(stdout, result)
	return 0
}

func loadObjects(path string) ([]domain.WaterObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	var file domain.CatalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	report := domain.ConvertCatalog(file, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return report.Objects, nil
}

func parseCategories(s string) ([]domain.ConditionCategory, error) {
	parts := strings.Split(s, ",")
	out := make([]domain.ConditionCategory, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", p, err)
		}
		out = append(out, domain.ConditionCategory(n))
	}
	return out, nil
}

func printPage(w io.Writer, p catalog.DashboardPage) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREGION\tTYPE\tCATEGORY\tPASSPORT AGE\tSCORE\tPRIORITY")
	for _, r := range p.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.Object.Name, r.Object.Region, r.Object.ResourceType, r.Object.ConditionCategory,
			r.Priority.PassportAgeYears, r.Priority.Score, r.Priority.Level)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "page %d/%d, %d objects, sorted by %s %s\n", p.Page, p.TotalPages, p.Total, p.Sort, p.Order)
}
