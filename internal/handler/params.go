package handler

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
	"github.com/yusufkecer/fitness-tracker-backend/internal/validation"
)

// queryParser collects field errors while reading optional query values.
type queryParser struct {
	q    url.Values
	errs validation.Errors
}

func (p *queryParser) value(name string) (string, bool) {
	v := strings.TrimSpace(p.q.Get(name))
	return v, v != ""
}

func (p *queryParser) integer(name string) *int {
	raw, ok := p.value(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs.Add(name, validation.InvalidValue, "Enter a whole number.")
		return nil
	}
	return &n
}

func (p *queryParser) number(name string) *float64 {
	raw, ok := p.value(name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs.Add(name, validation.InvalidValue, "Enter a number.")
		return nil
	}
	return &f
}

func (p *queryParser) date(name string) *domain.Date {
	raw, ok := p.value(name)
	if !ok {
		return nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		p.errs.Add(name, validation.InvalidValue, "Enter a valid date.")
		return nil
	}
	return &d
}

func (p *queryParser) intRange(name string, lo, hi int) *int {
	n := p.integer(name)
	if n != nil && (*n < lo || *n > hi) {
		p.errs.Add(name, validation.InvalidValue, "Ensure this value is between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi)+".")
		return nil
	}
	return n
}

// activityTypes reads a single value and a comma separated __in list.
func (p *queryParser) activityTypes(name string) []domain.ActivityType {
	var out []domain.ActivityType
	add := func(field, raw string) {
		t := domain.ActivityType(strings.ToUpper(strings.TrimSpace(raw)))
		if t == "" {
			return
		}
		if !t.Valid() {
			p.errs.Add(field, validation.InvalidValue, "Select a valid choice. "+raw+" is not one of the available choices.")
			return
		}
		out = append(out, t)
	}
	if raw, ok := p.value(name); ok {
		add(name, raw)
	}
	if raw, ok := p.value(name + "__in"); ok {
		for _, part := range strings.Split(raw, ",") {
			add(name+"__in", part)
		}
	}
	return out
}

func (p *queryParser) intensities(name string) []domain.Intensity {
	var out []domain.Intensity
	add := func(field, raw string) {
		in := domain.Intensity(strings.ToUpper(strings.TrimSpace(raw)))
		if in == "" {
			return
		}
		if !in.Valid() {
			p.errs.Add(field, validation.InvalidValue, "Select a valid choice. "+raw+" is not one of the available choices.")
			return
		}
		out = append(out, in)
	}
	if raw, ok := p.value(name); ok {
		add(name, raw)
	}
	if raw, ok := p.value(name + "__in"); ok {
		for _, part := range strings.Split(raw, ",") {
			add(name+"__in", part)
		}
	}
	return out
}

// parseActivityFilter reads the list endpoint's filter, search and
// ordering parameters, always scoped to userID.
func parseActivityFilter(q url.Values, userID int64) (domain.ActivityFilter, validation.Errors) {
	p := &queryParser{q: q}
	f := domain.ActivityFilter{
		UserID:      userID,
		Types:       p.activityTypes("activity_type"),
		Intensities: p.intensities("intensity"),
		Date:        p.date("date"),
		Year:        p.intRange("date__year", 1, 9999),
		Month:       p.intRange("date__month", 1, 12),
		DateFrom:    p.date("date_from"),
		DateTo:      p.date("date_to"),
		MinDuration: p.integer("min_duration"),
		MaxDuration: p.integer("max_duration"),
		MinDistance: p.number("min_distance"),
		MaxDistance: p.number("max_distance"),
		MinCalories: p.integer("min_calories"),
		MaxCalories: p.integer("max_calories"),
		Ordering:    domain.ParseOrdering(q.Get("ordering")),
	}
	f.Search, _ = p.value("search")
	return f, p.errs
}

// parsePage returns false for a page number that is not a positive integer
// or whose offset would overflow. Bad page sizes fall back to the default;
// large ones are capped.
func parsePage(q url.Values) (domain.PageRequest, bool) {
	page := domain.PageRequest{Page: 1, Size: domain.DefaultPageSize}

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > math.MaxInt/domain.MaxPageSize {
			return page, false
		}
		page.Page = n
	}
	if raw := strings.TrimSpace(q.Get("page_size")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Size = min(n, domain.MaxPageSize)
		}
	}
	return page, true
}

// pageURL rebuilds the request URL with page set, dropping it for page 1.
func pageURL(r *http.Request, page int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := r.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	s := u.String()
	return &s
}
