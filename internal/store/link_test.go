package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rcliao/molecule-lab/internal/model"
)

func ethanol() []model.Atom {
	return []model.Atom{
		{ID: "c1", Element: "C"}, {ID: "c2", Element: "C"}, {ID: "o", Element: "O"},
		{ID: "h1", Element: "H"}, {ID: "h2", Element: "H"}, {ID: "h3", Element: "H"},
		{ID: "h4", Element: "H"}, {ID: "h5", Element: "H"}, {ID: "h6", Element: "H"},
	}
}

func TestLinkCreate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saveWater(t, s, "test", "a")
	saveWater(t, s, "test", "b")

	link, err := s.Link(ctx, LinkParams{
		FromNS: "test", FromKey: "a",
		ToNS: "test", ToKey: "b",
		Rel: "related_to",
	})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if link.Rel != "related_to" {
		t.Errorf("expected related_to, got %s", link.Rel)
	}

	links, err := s.GetLinks(ctx, link.FromID)
	if err != nil {
		t.Fatalf("get links: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}

	// Creating the same link twice is a no-op
	s.Link(ctx, LinkParams{FromNS: "test", FromKey: "a", ToNS: "test", ToKey: "b", Rel: "related_to"})
	links, _ = s.GetLinks(ctx, link.ToID)
	if len(links) != 1 {
		t.Errorf("expected 1 link after duplicate, got %d", len(links))
	}
}

func TestLinkRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saveWater(t, s, "test", "a")
	saveWater(t, s, "test", "b")

	p := LinkParams{FromNS: "test", FromKey: "a", ToNS: "test", ToKey: "b", Rel: "derived_from"}
	link, err := s.Link(ctx, p)
	if err != nil {
		t.Fatalf("link: %v", err)
	}

	p.Remove = true
	if _, err := s.Link(ctx, p); err != nil {
		t.Fatalf("unlink: %v", err)
	}

	links, _ := s.GetLinks(ctx, link.FromID)
	if len(links) != 0 {
		t.Errorf("expected 0 links after remove, got %d", len(links))
	}
}

func TestLinkInvalidRel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saveWater(t, s, "test", "a")
	saveWater(t, s, "test", "b")

	_, err := s.Link(ctx, LinkParams{
		FromNS: "test", FromKey: "a",
		ToNS: "test", ToKey: "b",
		Rel: "invalid_rel",
	})
	if !errors.Is(err, ErrInvalidRelation) {
		t.Errorf("expected ErrInvalidRelation, got %v", err)
	}
}

func TestLinkMissingMolecule(t *testing.T) {
	s := newTestStore(t)
	saveWater(t, s, "test", "a")

	_, err := s.Link(context.Background(), LinkParams{
		FromNS: "test", FromKey: "a", ToNS: "test", ToKey: "ghost", Rel: "related_to",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLinkIsomer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Ethanol and dimethyl ether share C2H6O; water does not.
	if _, err := s.Save(ctx, SaveParams{NS: "lab", Key: "ethanol", Atoms: ethanol()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Save(ctx, SaveParams{NS: "lab", Key: "dimethyl-ether", Atoms: ethanol()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	saveWater(t, s, "lab", "water")

	if _, err := s.Link(ctx, LinkParams{
		FromNS: "lab", FromKey: "ethanol", ToNS: "lab", ToKey: "dimethyl-ether", Rel: RelIsomerOf,
	}); err != nil {
		t.Fatalf("isomer link: %v", err)
	}

	_, err := s.Link(ctx, LinkParams{
		FromNS: "lab", FromKey: "ethanol", ToNS: "lab", ToKey: "water", Rel: RelIsomerOf,
	})
	if !errors.Is(err, ErrNotIsomer) {
		t.Errorf("expected ErrNotIsomer, got %v", err)
	}
}

func TestFormulaOf(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mol := saveWater(t, s, "test", "water")

	got, err := s.formulaOf(ctx, mol.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != "H2O" {
		t.Errorf("expected H2O, got %s", got)
	}

	// A failed lookup must not look like an empty formula.
	if _, err := s.formulaOf(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	s.Close()
	if _, err := s.formulaOf(ctx, mol.ID); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected a database error on a closed store, got %v", err)
	}
}
