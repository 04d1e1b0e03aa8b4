package registry

import (
	"testing"

	"github.com/vovakirdan/blocky-arcade/internal/core"
)

type stubGame struct {
	id     string
	closed *int
}

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }
func (g *stubGame) Close()                               { *g.closed++ }

func TestRegisterAndCreate(t *testing.T) {
	closed := 0
	Register("zz_stub_a", func() Game { return &stubGame{id: "zz_stub_a", closed: &closed} })

	if closed != 1 {
		t.Errorf("expected the instance read for its title to be closed, closed=%d", closed)
	}
	if !Exists("zz_stub_a") {
		t.Fatalf("expected game to exist")
	}

	g, err := Create("zz_stub_a")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "zz_stub_a" {
		t.Errorf("unexpected id %q", g.ID())
	}

	Release(g)
	if closed != 2 {
		t.Errorf("expected Release to close the game, closed=%d", closed)
	}

	found := false
	for _, info := range List() {
		if info.ID == "zz_stub_a" {
			found = true
			if info.Title != "Stub zz_stub_a" {
				t.Errorf("unexpected title %q", info.Title)
			}
		}
	}
	if !found {
		t.Errorf("expected game in List()")
	}

	if got := Title("zz_stub_a"); got != "Stub zz_stub_a" {
		t.Errorf("Title() = %q", got)
	}
	if got := Title("zz_missing"); got != "zz_missing" {
		t.Errorf("Title() of unknown game = %q, want the id", got)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	closed := 0
	f := func() Game { return &stubGame{id: "zz_stub_b", closed: &closed} }
	Register("zz_stub_b", f)

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on duplicate registration")
		}
	}()
	Register("zz_stub_b", f)
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no_such_game"); err == nil {
		t.Errorf("expected error for unknown game")
	}
}

func TestListSorted(t *testing.T) {
	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Errorf("List not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}
