package repository

import (
	"strings"
	"testing"
)

func TestBuildJobClausesEmpty(t *testing.T) {
	where, args := buildJobClauses(JobFilter{})
	if len(where) != 0 || len(args) != 0 {
		t.Fatalf("expected no clauses, got %v / %v", where, args)
	}
}

func TestBuildJobClausesAll(t *testing.T) {
	cat := uint64(3)
	min, max := 10.0, 20.0
	where, args := buildJobClauses(JobFilter{
		CategoryID: &cat,
		City:       "Berlin",
		Status:     "active",
		MinPrice:   &min,
		MaxPrice:   &max,
	})
	if len(where) != 5 || len(args) != 5 {
		t.Fatalf("expected 5 clauses and args, got %d / %d", len(where), len(args))
	}
	cond := strings.Join(where, " AND ")
	for _, frag := range []string{
		"j.category_id = ?",
		"LOWER(j.city) = LOWER(?)",
		"j.status = ?",
		"j.price >= ?",
		"j.price <= ?",
	} {
		if !strings.Contains(cond, frag) {
			t.Fatalf("missing fragment %q in %q", frag, cond)
		}
	}
	if args[0] != cat || args[1] != "Berlin" || args[2] != "active" || args[3] != min || args[4] != max {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildJobClausesPriceOnly(t *testing.T) {
	min := 10.0
	where, args := buildJobClauses(JobFilter{MinPrice: &min})
	if len(where) != 1 || where[0] != "j.price >= ?" {
		t.Fatalf("unexpected clauses: %v", where)
	}
	if len(args) != 1 || args[0] != min {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page, limit int
		total       int64
		pages       int
	}{
		{1, 20, 0, 0},
		{1, 20, 1, 1},
		{1, 20, 20, 1},
		{2, 20, 21, 2},
		{1, 3, 10, 4},
	}
	for _, c := range cases {
		p := NewPagination(c.page, c.limit, c.total)
		if p.Pages != c.pages {
			t.Fatalf("total=%d limit=%d: expected %d pages, got %d", c.total, c.limit, c.pages, p.Pages)
		}
		if p.Page != c.page || p.Limit != c.limit || p.Total != c.total {
			t.Fatalf("pagination fields not carried through: %+v", p)
		}
	}
}
