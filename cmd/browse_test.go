package cmd

import (
	"strings"
	"testing"

	"modlist-manager/db"
	"modlist-manager/testutil"
	"modlist-manager/tracked"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"Hello World", 5, "He..."},
		{"Hi", 5, "Hi"},
		{"Test", 4, "Test"},
		{"LongString", 7, "Long..."},
		{"", 5, ""},
	}

	for _, test := range tests {
		result := truncate(test.input, test.maxLen)
		if result != test.expected {
			t.Fatalf("truncate(%q, %d) = %q, expected %q", test.input, test.maxLen, result, test.expected)
		}
	}
}

func TestBrowseNavigation(t *testing.T) {
	var m tea.Model = BrowseModel{
		rows: []ModRow{{ID: 1, Name: "Mod 1"}, {ID: 2, Name: "Mod 2"}, {ID: 3, Name: "Mod 3"}},
	}
	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
	up := tea.KeyMsg{Type: tea.KeyUp}

	steps := []struct {
		key  tea.KeyMsg
		want int
	}{
		{down, 1},
		{down, 2},
		{down, 2}, // stops at the last row
		{up, 1},
		{up, 0},
		{up, 0}, // stops at the first row
	}
	for i, step := range steps {
		m, _ = m.Update(step.key)
		if got := m.(BrowseModel).selectedIndex; got != step.want {
			t.Fatalf("step %d: selectedIndex = %d, want %d", i, got, step.want)
		}
	}
}

func TestBrowseEmptyView(t *testing.T) {
	m := BrowseModel{rows: []ModRow{}}
	view := m.View()
	if !strings.Contains(view, "No tracked mods") {
		t.Fatalf("View() = %q, want empty-list message", view)
	}
}

func TestBrowseSyncKeyWithoutSync(t *testing.T) {
	m := BrowseModel{rows: []ModRow{{ID: 1}}}
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if cmd != nil || updated.(BrowseModel).syncing {
		t.Fatal("s must do nothing when no sync is configured")
	}
}

func TestLoadTrackedRows(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, gdb, "alice")
	testutil.SeedMod(t, gdb, 301, 0, false)
	testutil.SeedMod(t, gdb, 302, 0, true)
	testutil.SeedMod(t, gdb, 303, 0, false)

	ml, err := db.FindTrackedModlist(gdb, user.ID)
	if err != nil {
		t.Fatalf("FindTrackedModlist: %v", err)
	}
	if err := db.AddMembers(gdb, ml.ID, []int{301, 302, 303}); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	if _, err := tracked.Keep(gdb, user.ID, 301); err != nil {
		t.Fatalf("Keep: %v", err)
	}

	rows, err := loadTrackedRows(gdb, user.ID, false)
	if err != nil {
		t.Fatalf("loadTrackedRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	// most recently updated first
	if rows[0].ID != 303 || rows[2].ID != 301 {
		t.Errorf("rows out of order: %+v", rows)
	}
	if !rows[2].Kept || rows[0].Kept {
		t.Errorf("kept flags wrong: %+v", rows)
	}

	hidden, err := loadTrackedRows(gdb, user.ID, true)
	if err != nil {
		t.Fatalf("loadTrackedRows(hide): %v", err)
	}
	for _, r := range hidden {
		if r.ID == 302 {
			t.Error("adult mod should be hidden")
		}
	}
}

func TestBrowseToggleKeep(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, gdb, "bob")
	testutil.SeedMod(t, gdb, 401, 0, false)
	ml, err := db.FindTrackedModlist(gdb, user.ID)
	if err != nil {
		t.Fatalf("FindTrackedModlist: %v", err)
	}
	if err := db.AddMembers(gdb, ml.ID, []int{401}); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}

	m := newBrowseModel(gdb, user)
	m.loading = false
	m.rows = []ModRow{{ID: 401, Name: "Mod"}}

	msg := m.toggleKeep(0)()
	toggled, ok := msg.(keepToggledMsg)
	if !ok {
		t.Fatalf("toggleKeep returned %T (%v)", msg, msg)
	}
	if !toggled.kept {
		t.Fatal("first toggle should keep the mod")
	}

	updated, _ := m.Update(toggled)
	m = updated.(BrowseModel)
	if !m.rows[0].Kept || m.message == "" {
		t.Errorf("row not marked kept: %+v, message %q", m.rows[0], m.message)
	}

	kept, err := tracked.KeptMods(gdb, user.ID)
	if err != nil || len(kept) != 1 {
		t.Fatalf("KeptMods = %v, %v", kept, err)
	}

	msg = m.toggleKeep(0)()
	if toggled := msg.(keepToggledMsg); toggled.kept {
		t.Fatal("second toggle should unkeep the mod")
	}
	kept, _ = tracked.KeptMods(gdb, user.ID)
	if len(kept) != 0 {
		t.Errorf("mod still kept: %+v", kept)
	}
}

func TestBrowseKeptModSurvivesReload(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, gdb, "carol")
	testutil.SeedMod(t, gdb, 501, 0, false)
	testutil.SeedMod(t, gdb, 502, 0, false)
	ml, err := db.FindTrackedModlist(gdb, user.ID)
	if err != nil {
		t.Fatalf("FindTrackedModlist: %v", err)
	}
	if err := db.AddMembers(gdb, ml.ID, []int{501, 502}); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	if _, err := tracked.Keep(gdb, user.ID, 501); err != nil {
		t.Fatalf("Keep: %v", err)
	}

	var m tea.Model = newBrowseModel(gdb, user)
	m, _ = m.Update(m.(BrowseModel).loadRows()())
	rows := m.(BrowseModel).rows
	if len(rows) != 2 || rows[1].ID != 501 || !rows[1].Kept {
		t.Fatalf("kept mod missing after reload: %+v", rows)
	}

	msg := m.(BrowseModel).toggleKeep(1)()
	if toggled, ok := msg.(keepToggledMsg); !ok || toggled.kept {
		t.Fatalf("toggling a kept row should unkeep it, got %T %+v", msg, msg)
	}

	m, _ = m.Update(m.(BrowseModel).loadRows()())
	rows = m.(BrowseModel).rows
	if len(rows) != 2 || rows[1].Kept {
		t.Errorf("rows after unkeep = %+v", rows)
	}
}
