// Package reporter provides route search reporting and output formatting.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jonasrmichel/jup-routes/pkg/graph"
	"github.com/jonasrmichel/jup-routes/pkg/types"
)

// Reporter outputs route search results in various formats.
type Reporter struct {
	output     io.Writer
	format     OutputFormat
	verbose    bool
	stats      *types.RunStats
	statsMu    sync.Mutex
	history    []*types.ScoredRoute
	historyMu  sync.Mutex
	maxHistory int
}

// OutputFormat specifies the output format for reports.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// NewReporter creates a new reporter.
func NewReporter(output io.Writer, format OutputFormat, verbose bool) *Reporter {
	if output == nil {
		output = os.Stdout
	}
	return &Reporter{
		output:     output,
		format:     format,
		verbose:    verbose,
		stats:      &types.RunStats{StartTime: time.Now()},
		history:    make([]*types.ScoredRoute, 0),
		maxHistory: 1000,
	}
}

// ReportResult reports the outcome of one route search.
func (r *Reporter) ReportResult(result *types.FindResult) {
	r.updateStats(result)

	r.historyMu.Lock()
	for _, route := range result.Retained {
		r.history = append(r.history, route)
		if len(r.history) > r.maxHistory {
			r.history = r.history[1:]
		}
	}
	r.historyMu.Unlock()

	switch r.format {
	case FormatJSON:
		r.reportJSON(result)
	case FormatCSV:
		r.reportCSV(result)
	default:
		r.reportText(result)
	}
}

// reportText prints the baseline report followed by every retained route.
func (r *Reporter) reportText(result *types.FindResult) {
	if result.Baseline != nil {
		fmt.Fprintln(r.output, result.Baseline.Report)
	}

	for _, route := range result.Retained {
		fmt.Fprintln(r.output, "Yield more output token from the following route: ")
		fmt.Fprintln(r.output, graph.FormatRoute(route.Path))
		fmt.Fprintln(r.output, route.Report)
	}

	if r.verbose {
		r.printSummary(result)
	}
}

func (r *Reporter) printSummary(result *types.FindResult) {
	fmt.Fprintln(r.output, strings.Repeat("-", 80))
	fmt.Fprintf(r.output, "[%s] %d candidate routes within %d hops, %d retained, %d discarded (%s)\n",
		result.StartedAt.Format("15:04:05"),
		result.Candidates,
		result.MaxHops,
		len(result.Retained),
		result.Discarded,
		result.Duration.Round(time.Millisecond),
	)
	if len(result.Retained) == 0 {
		fmt.Fprintln(r.output, "No route beats the direct swap")
	}
}

// routeJSON is a JSON-friendly representation of a scored route.
type routeJSON struct {
	Path      []string  `json:"path"`
	Valuation float64   `json:"valuation"`
	Hops      []hopJSON `json:"hops"`
}

type hopJSON struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	OfferCount int              `json:"offer_count"`
	Rate       float64          `json:"rate"`
	Best       *types.BestOffer `json:"best,omitempty"`
}

func toRouteJSON(route *types.ScoredRoute) *routeJSON {
	if route == nil {
		return nil
	}

	out := &routeJSON{
		Path:      make([]string, len(route.Path)),
		Valuation: route.Valuation,
		Hops:      make([]hopJSON, 0, len(route.Hops)),
	}
	for i, pk := range route.Path {
		out.Path[i] = pk.String()
	}
	for _, h := range route.Hops {
		out.Hops = append(out.Hops, hopJSON{
			From:       h.From.String(),
			To:         h.To.String(),
			OfferCount: h.OfferCount,
			Rate:       h.Rate,
			Best:       h.Best,
		})
	}
	return out
}

// reportJSON outputs the result in JSON format.
func (r *Reporter) reportJSON(result *types.FindResult) {
	retained := make([]*routeJSON, 0, len(result.Retained))
	for _, route := range result.Retained {
		retained = append(retained, toRouteJSON(route))
	}

	report := struct {
		Timestamp  string       `json:"timestamp"`
		Start      string       `json:"start"`
		End        string       `json:"end"`
		MaxHops    int          `json:"max_hops"`
		Baseline   *routeJSON   `json:"baseline"`
		Candidates int          `json:"candidates"`
		Discarded  int          `json:"discarded"`
		DurationMs int64        `json:"duration_ms"`
		Retained   []*routeJSON `json:"retained"`
	}{
		Timestamp:  result.StartedAt.Format(time.RFC3339),
		Start:      result.Start.String(),
		End:        result.End.String(),
		MaxHops:    result.MaxHops,
		Baseline:   toRouteJSON(result.Baseline),
		Candidates: result.Candidates,
		Discarded:  result.Discarded,
		DurationMs: result.Duration.Milliseconds(),
		Retained:   retained,
	}

	encoder := json.NewEncoder(r.output)
	encoder.SetIndent("", "  ")
	encoder.Encode(report)
}

// reportCSV outputs one row for the baseline and one per retained route.
func (r *Reporter) reportCSV(result *types.FindResult) {
	// Header
	fmt.Fprintln(r.output, "timestamp,kind,hops,valuation,ratio_to_baseline,route")

	baseline := 0.0
	if result.Baseline != nil {
		baseline = result.Baseline.Valuation
		r.csvRow(result.StartedAt, "baseline", result.Baseline, baseline)
	}
	for _, route := range result.Retained {
		r.csvRow(result.StartedAt, "retained", route, baseline)
	}
}

func (r *Reporter) csvRow(ts time.Time, kind string, route *types.ScoredRoute, baseline float64) {
	ratio := 0.0
	if baseline > 0 {
		ratio = route.Valuation / baseline
	}

	path := make([]string, len(route.Path))
	for i, pk := range route.Path {
		path[i] = pk.String()
	}

	fmt.Fprintf(r.output, "%s,%s,%d,%v,%.6f,%s\n",
		ts.Format(time.RFC3339),
		kind,
		len(route.Path)-1,
		route.Valuation,
		ratio,
		strings.Join(path, ">"),
	)
}

// updateStats updates run statistics.
func (r *Reporter) updateStats(result *types.FindResult) {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()

	r.stats.TotalRuns++
	r.stats.LastRunTime = time.Now()
	r.stats.LastRunDuration = result.Duration.Milliseconds()
	r.stats.CandidatesTotal += int64(result.Candidates)
	r.stats.RetainedTotal += int64(len(result.Retained))
}

// GetStats returns current run statistics.
func (r *Reporter) GetStats() types.RunStats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return *r.stats
}

// PrintStats prints run statistics.
func (r *Reporter) PrintStats() {
	stats := r.GetStats()

	fmt.Fprintln(r.output)
	fmt.Fprintln(r.output, strings.Repeat("=", 50))
	fmt.Fprintln(r.output, "ROUTE SEARCH STATISTICS")
	fmt.Fprintln(r.output, strings.Repeat("=", 50))
	fmt.Fprintf(r.output, "Running since:              %s\n", stats.StartTime.Format(time.RFC3339))
	fmt.Fprintf(r.output, "Uptime:                     %s\n", time.Since(stats.StartTime).Round(time.Second))
	fmt.Fprintf(r.output, "Total searches:             %d\n", stats.TotalRuns)
	fmt.Fprintf(r.output, "Candidate routes:           %d\n", stats.CandidatesTotal)
	fmt.Fprintf(r.output, "Retained routes:            %d\n", stats.RetainedTotal)
	fmt.Fprintf(r.output, "Last search:                %dms\n", stats.LastRunDuration)
	fmt.Fprintf(r.output, "Errors:                     %d\n", stats.Errors)
	fmt.Fprintln(r.output, strings.Repeat("-", 50))
}

// GetHistory returns previously retained routes, oldest first.
func (r *Reporter) GetHistory() []*types.ScoredRoute {
	r.historyMu.Lock()
	defer r.historyMu.Unlock()

	result := make([]*types.ScoredRoute, len(r.history))
	copy(result, r.history)
	return result
}

// RecordError records an error in statistics.
func (r *Reporter) RecordError() {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	r.stats.Errors++
}
