package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Sternrassler/ifunny-client/pkg/ifunny"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// printer renders command results in the configured output format.
type printer struct {
	w      io.Writer
	format string
}

func (a *app) printer(cmd *cobra.Command) printer {
	return printer{w: cmd.OutOrStdout(), format: a.settings.Output}
}

// print writes v as JSON or YAML; for the table format it hands a fresh
// table to fill and renders it.
func (p printer) print(v any, fill func(*tablewriter.Table) error) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		generic, err := toGeneric(v)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		table := tablewriter.NewWriter(p.w)
		if err := fill(table); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
		return nil
	}
}

// toGeneric re-decodes v through JSON so YAML output uses the JSON field
// names and integers stay integers.
func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return normalizeNumbers(out), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
	}
	return v
}

func propertyTable(table *tablewriter.Table, rows [][2]string) error {
	table.Header("Property", "Value")
	for _, row := range rows {
		if err := table.Append(row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}

func userRows(u *ifunny.User) [][2]string {
	return [][2]string{
		{"ID", u.ID},
		{"Nick", u.Nick},
		{"Verified", strconv.FormatBool(u.IsVerified)},
		{"Private", strconv.FormatBool(u.IsPrivate)},
		{"Subscribers", strconv.Itoa(u.Num.Subscribers)},
		{"Subscriptions", strconv.Itoa(u.Num.Subscriptions)},
		{"Posts", strconv.Itoa(u.Num.TotalPosts)},
		{"Featured", strconv.Itoa(u.Num.Featured)},
		{"Smiles", strconv.Itoa(u.Num.TotalSmiles)},
		{"About", u.About},
	}
}

func postRows(p *ifunny.Post) [][2]string {
	creator := ""
	if p.Creator != nil {
		creator = p.Creator.Nick
	}
	return [][2]string{
		{"ID", p.ID},
		{"Type", p.Type},
		{"URL", p.URL},
		{"Creator", creator},
		{"Featured", strconv.FormatBool(p.IsFeatured)},
		{"Smiles", strconv.Itoa(p.Num.Smiles)},
		{"Unsmiles", strconv.Itoa(p.Num.Unsmiles)},
		{"Comments", strconv.Itoa(p.Num.Comments)},
		{"Republished", strconv.Itoa(p.Num.Republished)},
		{"Tags", strings.Join(p.Tags, ", ")},
	}
}

func postsTable(table *tablewriter.Table, posts []ifunny.Post) error {
	table.Header("#", "ID", "Type", "Smiles", "URL")
	for i, p := range posts {
		if err := table.Append(strconv.Itoa(i+1), p.ID, p.Type, strconv.Itoa(p.Num.Smiles), p.URL); err != nil {
			return err
		}
	}
	return nil
}

// Listing items differ in shape by endpoint; these paths cover users,
// guests, posts, comments and news entries.
var (
	itemIDPaths      = []string{"id", "guest.id", "user.id"}
	itemSummaryPaths = []string{"nick", "guest.nick", "text", "title", "url", "type"}
)

func firstString(item gjson.Result, paths []string) string {
	for _, path := range paths {
		if v := item.Get(path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// summarize picks an id and a one-line description out of a raw item.
func summarize(raw []byte) (id, summary string) {
	item := gjson.ParseBytes(raw)
	return firstString(item, itemIDPaths), firstString(item, itemSummaryPaths)
}

func itemsTable(table *tablewriter.Table, items []json.RawMessage) error {
	table.Header("#", "ID", "Summary")
	for i, raw := range items {
		id, summary := summarize(raw)
		if err := table.Append(strconv.Itoa(i+1), id, summary); err != nil {
			return err
		}
	}
	return nil
}
