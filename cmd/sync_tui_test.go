package cmd

import (
	"errors"
	"strings"
	"testing"

	"modlist-manager/tracked"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSyncModelProgress(t *testing.T) {
	m := initialSyncModel(nil)

	updated, cmd := m.Update(syncProgressMsg(tracked.Progress{
		Phase:   tracked.PhaseBackfill,
		Step:    2,
		Total:   5,
		Message: "Fetching mod 302",
	}))
	m = updated.(SyncModel)

	if cmd == nil {
		t.Fatal("progress should keep listening for activity")
	}
	if m.status != "Fetching mod 302" {
		t.Errorf("status = %q", m.status)
	}
	if m.step != 2 || m.total != 5 {
		t.Errorf("step/total = %d/%d, want 2/5", m.step, m.total)
	}
	if view := m.View(); !strings.Contains(view, "2/5 mods fetched") {
		t.Errorf("View() = %q, missing backfill counter", view)
	}
}

func TestSyncModelDone(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m := initialSyncModel(nil)
		res := &tracked.Result{
			Added:    []int{301, 302},
			Removed:  []int{100},
			Fetched:  []int{302},
			Warnings: []tracked.Warning{{Kind: tracked.WarnUnpublished, ModID: 303, Domain: "skyrim"}},
		}

		updated, cmd := m.Update(syncDoneMsg{result: res})
		m = updated.(SyncModel)
		if cmd == nil {
			t.Fatal("done should quit the program")
		}
		if !m.done || m.status != "Finished" {
			t.Errorf("done=%v status=%q", m.done, m.status)
		}

		view := m.View()
		if !strings.Contains(view, "2 added, 1 removed, 1 fetched") {
			t.Errorf("View() = %q, missing summary", view)
		}
		if !strings.Contains(view, "Warnings:") {
			t.Errorf("View() = %q, missing warnings", view)
		}
	})

	t.Run("failure", func(t *testing.T) {
		m := initialSyncModel(nil)
		updated, _ := m.Update(syncDoneMsg{err: errors.Join(tracked.ErrRemoteFetch, errors.New("boom"))})
		m = updated.(SyncModel)

		if m.status != "Sync failed" {
			t.Errorf("status = %q", m.status)
		}
		if view := m.View(); !strings.Contains(view, "Nothing was changed") {
			t.Errorf("View() = %q, missing error", view)
		}
	})
}

func TestSyncModelQuitKey(t *testing.T) {
	m := initialSyncModel(nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce a QuitMsg")
	}
}
