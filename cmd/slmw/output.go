package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/hsuehlab/shopline-middleware/internal/model"
	"github.com/hsuehlab/shopline-middleware/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printEventTable(e *model.Event) {
	fmt.Printf("ID:        %s\n", e.ID)
	fmt.Printf("Type:      %s\n", e.Type)
	fmt.Printf("Source:    %s\n", e.Source)
	fmt.Printf("Status:    %s\n", ui.RenderStatus(string(e.Status)))
	fmt.Printf("Timestamp: %s\n", e.Timestamp.Format("2006-01-02 15:04:05"))
	if len(e.Data) > 0 {
		fmt.Printf("Data:      %s\n", string(e.Data))
	}
}

func printEventListTable(page *model.EventPage) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSOURCE\tSTATUS\tTIMESTAMP")
	for _, e := range page.Events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Type,
			e.Source,
			ui.RenderStatus(string(e.Status)),
			e.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()
	p := page.Pagination
	fmt.Printf("\npage %d of %d (%d events total)\n", p.Page, p.Pages, p.Total)
}

func printStatsTable(stats *model.EventStats) {
	fmt.Printf("Total events: %d\n", stats.Total)

	printCountSection("By type", stats.ByType)
	printCountSection("By source", stats.BySource)
	printCountSection("By status", stats.ByStatus)

	if len(stats.Recent) > 0 {
		fmt.Println()
		fmt.Println("Recent:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, e := range stats.Recent {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
				e.ID, e.Type, ui.RenderStatus(string(e.Status)), e.Timestamp.Format("2006-01-02 15:04:05"))
		}
		w.Flush()
	}
}

func printCountSection(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println()
	fmt.Printf("%s:\n", title)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\t%d\n", k, counts[k])
	}
	w.Flush()
}
