package notion

import (
	"strings"
	"time"
)

type Page struct {
	Object         string              `json:"object"`
	ID             string              `json:"id"`
	CreatedTime    time.Time           `json:"created_time"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	Properties     map[string]Property `json:"properties"`
}

// Property is the read side of a page property. Only the member matching Type is set.
type Property struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Title    []RichText    `json:"title"`
	RichText []RichText    `json:"rich_text"`
	Number   *float64      `json:"number"`
	Select   *SelectOption `json:"select"`
	Status   *SelectOption `json:"status"`
	URL      *string       `json:"url"`
	Checkbox bool          `json:"checkbox"`
	Date     *Date         `json:"date"`
	UniqueID *UniqueID     `json:"unique_id"`
}

type RichText struct {
	Type      string       `json:"type,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
}

// SelectOption is the value of a select or status property.
type SelectOption struct {
	Name string `json:"name"`
}

type Date struct {
	Start string `json:"start"`
}

type UniqueID struct {
	Prefix *string `json:"prefix"`
	Number int     `json:"number"`
}

// PlainText flattens title or rich text content.
func (p Property) PlainText() string {
	parts := p.RichText
	if p.Type == "title" {
		parts = p.Title
	}
	var b strings.Builder
	for _, rt := range parts {
		switch {
		case rt.PlainText != "":
			b.WriteString(rt.PlainText)
		case rt.Text != nil:
			b.WriteString(rt.Text.Content)
		}
	}
	return b.String()
}

// Choice returns the option name of a select or status property.
func (p Property) Choice() string {
	switch {
	case p.Select != nil:
		return p.Select.Name
	case p.Status != nil:
		return p.Status.Name
	}
	return ""
}

type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

// SortLastEditedDesc orders newest edits first.
var SortLastEditedDesc = Sort{Timestamp: "last_edited_time", Direction: "descending"}

type QueryRequest struct {
	Filter      map[string]any `json:"filter,omitempty"`
	Sorts       []Sort         `json:"sorts,omitempty"`
	StartCursor string         `json:"start_cursor,omitempty"`
	PageSize    int            `json:"page_size,omitempty"`
}

type QueryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Properties is the write side: property name to typed value object.
type Properties map[string]any

// maxTextContent is the store's per-segment rich text limit.
const maxTextContent = 2000

// TextValue wraps s in rich text segments. An empty string writes an explicit empty
// array, which clears the property.
func TextValue(s string) map[string]any {
	segments := []map[string]any{}
	runes := []rune(s)
	for len(runes) > 0 {
		n := len(runes)
		if n > maxTextContent {
			n = maxTextContent
		}
		segments = append(segments, map[string]any{
			"type": "text",
			"text": map[string]string{"content": string(runes[:n])},
		})
		runes = runes[n:]
	}
	return map[string]any{"rich_text": segments}
}

// NumberValue writes a number; nil clears it.
func NumberValue(v *float64) map[string]any {
	if v == nil {
		return map[string]any{"number": nil}
	}
	return map[string]any{"number": *v}
}

func SelectValue(name string) map[string]any {
	if name == "" {
		return map[string]any{"select": nil}
	}
	return map[string]any{"select": map[string]string{"name": name}}
}

func URLValue(u string) map[string]any {
	if u == "" {
		return map[string]any{"url": nil}
	}
	return map[string]any{"url": u}
}

func DateValue(start string) map[string]any {
	if start == "" {
		return map[string]any{"date": nil}
	}
	return map[string]any{"date": map[string]string{"start": start}}
}

func CheckboxValue(b bool) map[string]any {
	return map[string]any{"checkbox": b}
}
