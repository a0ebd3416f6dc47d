package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/taxoselect/pkg/repository"
)

func TestSearchNamesResolvesSynonyms(t *testing.T) {
	svc := NewService(repository.Sample(), nil)

	names, err := svc.SearchNames(context.Background(), "bdtfx", "quercus", 10, true)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(names) != 5 {
		t.Fatalf("expected 5 names, got %d", len(names))
	}
	for _, n := range names {
		if n.Synonym && n.Valid == nil {
			t.Fatalf("synonym %s has no valid form", n.Name)
		}
		if !n.Synonym && n.Valid != nil {
			t.Fatalf("retained name %s should not carry a valid form", n.Name)
		}
	}
	last := names[len(names)-1]
	if last.Name != "Quercus sessiliflora" || last.Valid.Name != "Quercus petraea" {
		t.Fatalf("unexpected last name %+v", last)
	}
}

func TestSearchNamesLimitAndValidation(t *testing.T) {
	svc := NewService(repository.Sample(), nil)
	ctx := context.Background()

	names, err := svc.SearchNames(ctx, "bdtfx", "rosa", 2, false)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(names))
	}
	if !strings.Contains(names[0].Label, "(sp.)") {
		t.Fatalf("expected a formatted label, got %q", names[0].Label)
	}

	if _, err := svc.SearchNames(ctx, "", "rosa", 0, false); err == nil {
		t.Fatalf("expected a missing repository error")
	}
	if _, err := svc.SearchNames(ctx, "bdtfx", "  ", 0, false); err == nil {
		t.Fatalf("expected a missing query error")
	}
}

func TestResolveValidForm(t *testing.T) {
	svc := NewService(repository.Sample(), nil)
	ctx := context.Background()

	valid, err := svc.ResolveValidForm(ctx, "baseveg", "1003", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if valid.Name != "Carpino betuli-Fagetea sylvaticae" || valid.Synonym {
		t.Fatalf("unexpected valid form %+v", valid)
	}

	_, err = svc.ResolveValidForm(ctx, "baseveg", "424242", "")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRepositories(t *testing.T) {
	svc := NewService(repository.Sample(), nil)

	dto, err := svc.ListRepositories("synusy", "pvf2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if dto.Default != "pvf2" || dto.Decision != repository.ExactMatch.String() {
		t.Fatalf("unexpected default %+v", dto)
	}
	if len(dto.Repositories) != 2 || dto.Repositories[0].Label != "BASEVEG" {
		t.Fatalf("unexpected repositories %+v", dto.Repositories)
	}

	if _, err := svc.ListRepositories("kingdom", ""); !errors.Is(err, repository.ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestRunnerRequiresNames(t *testing.T) {
	if err := (Runner{}).Do(context.Background()); err == nil {
		t.Fatalf("expected an error without a name service")
	}
}

func TestLevelArgument(t *testing.T) {
	if got := levelArgument([]string{"synusy"}); got != "synusy" {
		t.Fatalf("unexpected level %q", got)
	}
	if got := levelArgument(3); got != "" {
		t.Fatalf("unexpected level %q", got)
	}
}
