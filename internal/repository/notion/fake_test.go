package notion

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	notionapi "github.com/ri4re/linebot/internal/infra/notion"
)

// fakeNotion is an in-memory stand-in for the pages and database query endpoints.
type fakeNotion struct {
	mu          sync.Mutex
	shortIDProp string
	pages       map[string]*fakePage
	seq         int
	edits       int
	requests    []fakeRequest
	failNext    *fakeFailure
}

type fakePage struct {
	id     string
	edited int
	props  map[string]notionapi.Property
}

type fakeRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

type fakeFailure struct {
	status int
	body   string
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newFakeNotion(shortIDProp string) *fakeNotion {
	return &fakeNotion{shortIDProp: shortIDProp, pages: map[string]*fakePage{}}
}

func (f *fakeNotion) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	f.requests = append(f.requests, fakeRequest{Method: r.Method, Path: r.URL.Path, Body: body})

	if f.failNext != nil {
		fail := f.failNext
		f.failNext = nil
		w.WriteHeader(fail.status)
		_, _ = io.WriteString(w, fail.body)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/pages":
		f.seq++
		p := &fakePage{id: fmt.Sprintf("page-%d", f.seq), props: map[string]notionapi.Property{}}
		f.apply(p, body["properties"])
		p.props[f.shortIDProp] = notionapi.Property{Type: "unique_id", UniqueID: &notionapi.UniqueID{Number: f.seq}}
		f.pages[p.id] = p
		f.write(w, p)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/pages/"):
		p, ok := f.pages[strings.TrimPrefix(r.URL.Path, "/pages/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"object":"error","status":404,"code":"object_not_found","message":"not found"}`)
			return
		}
		f.write(w, p)

	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/pages/"):
		p, ok := f.pages[strings.TrimPrefix(r.URL.Path, "/pages/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.apply(p, body["properties"])
		f.write(w, p)

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/query"):
		f.query(w, body)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// seed inserts a page directly, e.g. to simulate duplicate short ids.
func (f *fakeNotion) seed(id string, shortID int, props map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &fakePage{id: id, props: map[string]notionapi.Property{}}
	f.apply(p, props)
	p.props[f.shortIDProp] = notionapi.Property{Type: "unique_id", UniqueID: &notionapi.UniqueID{Number: shortID}}
	f.pages[id] = p
}

func (f *fakeNotion) lastRequest() fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeNotion) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeNotion) apply(p *fakePage, props any) {
	m, _ := props.(map[string]any)
	for name, v := range m {
		data, _ := json.Marshal(v)
		var prop notionapi.Property
		_ = json.Unmarshal(data, &prop)
		p.props[name] = prop
	}
	f.edits++
	p.edited = f.edits
}

func (f *fakeNotion) toPage(p *fakePage) notionapi.Page {
	return notionapi.Page{
		Object:         "page",
		ID:             p.id,
		CreatedTime:    epoch,
		LastEditedTime: epoch.Add(time.Duration(p.edited) * time.Second),
		Properties:     p.props,
	}
}

func (f *fakeNotion) write(w http.ResponseWriter, p *fakePage) {
	_ = json.NewEncoder(w).Encode(f.toPage(p))
}

func (f *fakeNotion) query(w http.ResponseWriter, body map[string]any) {
	filter, _ := body["filter"].(map[string]any)
	var matched []*fakePage
	for _, p := range f.pages {
		if filter == nil || matches(filter, p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].edited > matched[j].edited })

	size := len(matched)
	if ps, ok := body["page_size"].(float64); ok && int(ps) > 0 {
		size = int(ps)
	}
	start := 0
	if c, ok := body["start_cursor"].(string); ok {
		start, _ = strconv.Atoi(c)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	resp := notionapi.QueryResponse{Results: []notionapi.Page{}}
	for _, p := range matched[start:end] {
		resp.Results = append(resp.Results, f.toPage(p))
	}
	if end < len(matched) {
		next := strconv.Itoa(end)
		resp.HasMore = true
		resp.NextCursor = &next
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func matches(filter map[string]any, p *fakePage) bool {
	if and, ok := filter["and"].([]any); ok {
		for _, c := range and {
			if !matches(c.(map[string]any), p) {
				return false
			}
		}
		return true
	}
	if or, ok := filter["or"].([]any); ok {
		for _, c := range or {
			if matches(c.(map[string]any), p) {
				return true
			}
		}
		return false
	}

	prop := p.props[filter["property"].(string)]
	for kind, raw := range filter {
		cond, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for op, want := range cond {
			var got any
			switch kind {
			case "rich_text":
				got = prop.PlainText()
			case "select":
				got = prop.Choice()
			case "unique_id":
				if prop.UniqueID == nil {
					return false
				}
				got = float64(prop.UniqueID.Number)
			case "number":
				if prop.Number == nil {
					return false
				}
				got = *prop.Number
			case "checkbox":
				got = prop.Checkbox
			}
			switch op {
			case "equals":
				return got == want
			case "does_not_equal":
				return got != want
			case "contains":
				s, _ := got.(string)
				return strings.Contains(s, want.(string))
			}
		}
	}
	return false
}
