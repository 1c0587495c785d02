package demos

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/redis/go-redis/v9"
)

func toArgs(items []string) []any {
	args := make([]any, len(items))
	for i, s := range items {
		args[i] = s
	}
	return args
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func sortedCopy(items []string) []string {
	out := slices.Clone(items)
	slices.Sort(out)
	return out
}

// printFields prints hash fields sorted by name so reruns print the same
func printFields(w io.Writer, fields map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(w, "%s: %s\n", k, fields[k])
	}
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// printDocs prints the total and one line per document of a search reply
func printDocs(w io.Writer, res redis.FTSearchResult, line func(redis.Document) string) {
	fmt.Fprintf(w, "Total results found: %d\n", res.Total)
	for _, doc := range res.Docs {
		fmt.Fprintln(w, line(doc))
	}
}

// printRows prints aggregate rows with their fields sorted by name
func printRows(w io.Writer, res *redis.FTAggregateResult) {
	for _, row := range res.Rows {
		parts := make([]string, 0, len(row.Fields))
		for _, k := range slices.Sorted(maps.Keys(row.Fields)) {
			parts = append(parts, fmt.Sprintf("%s=%v", k, row.Fields[k]))
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
	}
}
