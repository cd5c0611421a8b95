package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/rcliao/molecule-lab/internal/model"
)

func TestSearch_Basic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saveWater(t, s, "lab", "water", "solvent")
	atoms, bonds := methane()
	s.Save(ctx, SaveParams{NS: "lab", Key: "natural-gas", Atoms: atoms, Bonds: bonds, Tags: []string{"fuel"}})
	saveWater(t, s, "other", "ice")

	tests := []struct {
		query string
		ns    string
		want  []string
	}{
		{"water", "", []string{"water"}},
		{"h2o", "", []string{"ice", "water"}},
		{"CH4", "", []string{"natural-gas"}},
		{"fuel", "", []string{"natural-gas"}},
		{"h2o", "lab", []string{"water"}},
		{"nothing", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.ns, func(t *testing.T) {
			results, err := s.Search(ctx, SearchParams{NS: tt.ns, Query: tt.query})
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			var keys []string
			for _, r := range results {
				keys = append(keys, r.Key)
			}
			if diff := cmp.Diff(tt.want, keys, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
				t.Errorf("search %q mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestSearch_LatestVersionOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saveWater(t, s, "lab", "k")
	atoms, bonds := methane()
	s.Save(ctx, SaveParams{NS: "lab", Key: "k", Atoms: atoms, Bonds: bonds})

	results, _ := s.Search(ctx, SearchParams{Query: "H2O"})
	if len(results) != 0 {
		t.Errorf("expected superseded version to be hidden, got %d", len(results))
	}
}

func TestSearch_DeletedExcluded(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saveWater(t, s, "test", "secret")
	s.Rm(ctx, RmParams{NS: "test", Key: "secret"})

	results, err := s.Search(ctx, SearchParams{Query: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results for deleted molecule, got %d", len(results))
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	saveWater(t, s, "ns1", "a")
	saveWater(t, s, "ns1", "b")
	c := saveWater(t, s, "ns2", "c")
	s.Link(ctx, LinkParams{FromNS: "ns1", FromKey: "a", ToNS: "ns2", ToKey: "c", Rel: "related_to"})
	s.SaveHistory(ctx, c.ID, sampleEntries())

	stats, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if stats.ActiveMolecules != 3 {
		t.Fatalf("expected 3 active, got %d", stats.ActiveMolecules)
	}
	if stats.Links != 1 {
		t.Errorf("expected 1 link, got %d", stats.Links)
	}
	if stats.HistoryEntries != 2 {
		t.Errorf("expected 2 history entries, got %d", stats.HistoryEntries)
	}
	want := []NamespaceStats{{NS: "ns1", Count: 2, Keys: 2}, {NS: "ns2", Count: 1, Keys: 1}}
	if diff := cmp.Diff(want, stats.Namespaces); diff != "" {
		t.Errorf("namespaces mismatch (-want +got):\n%s", diff)
	}
	if stats.DBSizeBytes == 0 {
		t.Fatal("expected non-zero db size")
	}
}

func TestListNamespacesEmpty(t *testing.T) {
	s := newTestStore(t)
	ns, err := s.ListNamespaces(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ns == nil || len(ns) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", ns)
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	s1, _ := NewSQLiteStore(filepath.Join(dir, "src.db"))
	defer s1.Close()
	ctx := context.Background()

	atoms, bonds := water()
	s1.Save(ctx, SaveParams{NS: "test", Key: "a", Atoms: atoms, Bonds: bonds, Tags: []string{"solvent"}})
	s1.Save(ctx, SaveParams{NS: "test", Key: "a", Atoms: atoms[:1]})
	s1.Save(ctx, SaveParams{NS: "test", Key: "b", Atoms: atoms, Bonds: bonds})

	exported, err := s1.ExportAll(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(exported) != 3 {
		t.Fatalf("expected 3 exported versions, got %d", len(exported))
	}

	s2, _ := NewSQLiteStore(filepath.Join(dir, "dst.db"))
	defer s2.Close()

	n, err := s2.Import(ctx, exported)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("expected 3 imported, got %d", n)
	}

	// Importing again skips existing ids
	n, _ = s2.Import(ctx, exported)
	if n != 0 {
		t.Errorf("expected re-import to skip everything, got %d", n)
	}

	mols, _ := s2.List(ctx, ListParams{NS: "test"})
	if len(mols) != 2 {
		t.Fatalf("expected 2 molecules after import, got %d", len(mols))
	}

	got, _ := s2.Get(ctx, GetParams{NS: "test", Key: "a", History: true})
	if len(got) != 2 || got[0].Formula != "O" || got[1].Formula != "H2O" {
		t.Fatalf("expected versions to survive import, got %+v", got)
	}
	ignore := cmpopts.IgnoreFields(model.Molecule{}, "AccessCount", "LastAccessedAt", "CreatedAt")
	if diff := cmp.Diff(exported[0], got[1], ignore); diff != "" {
		t.Errorf("imported version differs (-export +import):\n%s", diff)
	}
	if !got[1].CreatedAt.Equal(exported[0].CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", exported[0].CreatedAt, got[1].CreatedAt)
	}
}

func TestImportRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Import(context.Background(), []model.Molecule{
		{NS: "ns", Key: "bad", Atoms: []model.Atom{{ID: "a", Element: "Xe"}}},
	})
	if err == nil {
		t.Fatal("expected error importing unknown element")
	}
	st, _ := s.Stats(context.Background(), "")
	if st.TotalMolecules != 0 {
		t.Errorf("expected nothing imported, got %d", st.TotalMolecules)
	}
}

func TestStatsClosedStore(t *testing.T) {
	s := newTestStore(t)
	s.Close()
	if _, err := s.Stats(context.Background(), "unused.db"); err == nil {
		t.Error("expected error on closed store")
	}
}
