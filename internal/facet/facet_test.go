package facet

import (
	"context"
	"fmt"
	"testing"

	"haigoo-engine/internal/domain"
)

func TestComputeCountsAndOrder(t *testing.T) {
	items := []domain.JobPosting{
		{Category: "后端", Region: domain.RegionDomestic},
		{Category: "后端", Region: domain.RegionOverseas},
		{Category: "前端", Region: domain.RegionDomestic},
		{Category: "", Region: domain.RegionDomestic}, // empty value never counted
	}
	got := Compute(context.Background(), items)

	cat := got["category"]
	if len(cat) != 2 {
		t.Fatalf("category entries = %v", cat)
	}
	if cat[0].Value != "后端" || cat[0].Count != 2 {
		t.Errorf("top category = %+v, want 后端/2", cat[0])
	}
	if cat[1].Value != "前端" || cat[1].Count != 1 {
		t.Errorf("second category = %+v", cat[1])
	}

	region := got["region"]
	if len(region) != 2 || region[0].Value != string(domain.RegionDomestic) || region[0].Count != 3 {
		t.Errorf("region facet = %v", region)
	}
}

func TestComputeTiesSortByValue(t *testing.T) {
	items := []domain.JobPosting{{Category: "b"}, {Category: "a"}}
	cat := Compute(context.Background(), items)["category"]
	if cat[0].Value != "a" || cat[1].Value != "b" {
		t.Errorf("tie order = %v, want value ascending", cat)
	}
}

func TestComputeLocationCap(t *testing.T) {
	var items []domain.JobPosting
	for i := 0; i < locationTop+10; i++ {
		items = append(items, domain.JobPosting{Location: fmt.Sprintf("city-%02d", i)})
	}
	loc := Compute(context.Background(), items)["location"]
	if len(loc) != locationTop {
		t.Errorf("location entries = %d, want %d", len(loc), locationTop)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	got := Compute(context.Background(), nil)
	for _, f := range fields {
		entries, ok := got[f.name]
		if !ok {
			t.Errorf("field %s missing from result", f.name)
		}
		if len(entries) != 0 {
			t.Errorf("field %s = %v, want empty", f.name, entries)
		}
	}
}
