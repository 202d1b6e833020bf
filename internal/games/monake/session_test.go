package monake

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/monake/internal/core"
)

// newSession returns a session still in its countdown.
func newSession(t *testing.T, settings Settings, seed int64) *Session {
	t.Helper()
	s, err := New(settings, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

// newRunning returns a session that has finished its countdown.
func newRunning(t *testing.T, settings Settings, seed int64) *Session {
	t.Helper()
	s := newSession(t, settings, seed)
	for s.Lifecycle().Phase != PhaseRunning {
		s.AdvanceCountdown()
	}
	return s
}

// noSuper returns default settings with super food disabled.
func noSuper() Settings {
	settings := DefaultSettings()
	settings.SuperSpawnChance = 0
	return settings
}

func mustTick(t *testing.T, s *Session) TickResult {
	t.Helper()
	res, err := s.Tick()
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	return res
}

func recordEvents(s *Session) *[]Event {
	var events []Event
	s.Subscribe(func(ev Event) {
		events = append(events, ev)
	})
	return &events
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestNewSessionInitialState(t *testing.T) {
	s := newSession(t, DefaultSettings(), 1)

	if got := s.Lifecycle(); got != (Lifecycle{Phase: PhaseStarting, Countdown: 3}) {
		t.Errorf("expected starting(3), got %v", got)
	}
	snap := s.Snapshot()
	if len(snap.Snake) != 1 || snap.Head() != (core.Position{X: 10, Y: 10}) {
		t.Errorf("unexpected initial snake %v", snap.Snake)
	}
	if snap.Heading != core.Right {
		t.Errorf("expected heading right, got %v", snap.Heading)
	}
	if snap.Food.Position == snap.Head() {
		t.Error("food spawned on the snake")
	}
	if snap.Super != nil {
		t.Error("super food should not exist at start")
	}
	if snap.Score != 0 || snap.Tick != 0 {
		t.Errorf("expected zero score and tick, got %d, %d", snap.Score, snap.Tick)
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.Start = core.Position{X: 40, Y: 0}

	if _, err := New(settings, rand.New(rand.NewSource(1))); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
	if _, err := New(DefaultSettings(), nil); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings for nil rng, got %v", err)
	}
}

func TestTickMovesWithoutFood(t *testing.T) {
	s := newRunning(t, noSuper(), 1)
	s.food.Position = core.Position{X: 0, Y: 0}

	res := mustTick(t, s)

	if !res.Applied || res.Grew || res.Ate != nil {
		t.Errorf("unexpected tick result %+v", res)
	}
	if !reflect.DeepEqual(s.snake, []core.Position{{X: 11, Y: 10}}) {
		t.Errorf("expected snake [(11,10)], got %v", s.snake)
	}
	if s.Score() != 0 {
		t.Errorf("expected score 0, got %d", s.Score())
	}
}

func TestTickEatsOrdinaryFood(t *testing.T) {
	s := newRunning(t, noSuper(), 1)
	s.food = FoodInstance{Position: core.Position{X: 11, Y: 10}, Type: DefaultCatalog().Ordinary[0]}
	events := recordEvents(s)

	res := mustTick(t, s)

	if !res.Grew || res.Ate == nil || res.Ate.Name != "mon" {
		t.Errorf("expected to eat mon, got %+v", res)
	}
	if s.Score() != 1 {
		t.Errorf("expected score 1, got %d", s.Score())
	}
	if !reflect.DeepEqual(s.snake, []core.Position{{X: 11, Y: 10}, {X: 10, Y: 10}}) {
		t.Errorf("expected snake [(11,10) (10,10)], got %v", s.snake)
	}
	if s.food.Position == (core.Position{X: 11, Y: 10}) || s.food.Position == (core.Position{X: 10, Y: 10}) {
		t.Errorf("new food spawned on the snake at %v", s.food.Position)
	}
	if !reflect.DeepEqual(kinds(*events), []EventKind{EventEat}) {
		t.Errorf("expected a single eat event, got %v", kinds(*events))
	}
	if (*events)[0].Score != 1 {
		t.Errorf("eat event should carry the new score, got %d", (*events)[0].Score)
	}
}

func TestReversalRejectedThenSelfCollision(t *testing.T) {
	s := newRunning(t, noSuper(), 1)
	s.food.Position = core.Position{X: 0, Y: 0}
	s.snake = []core.Position{
		{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 7, Y: 6},
		{X: 7, Y: 5}, {X: 7, Y: 4}, {X: 7, Y: 3},
	}
	s.heading = core.Right

	if s.EnqueueDirection(core.Left) {
		t.Fatal("reversal should be rejected")
	}

	res := mustTick(t, s)
	if res.Collision != CauseNone {
		t.Fatalf("first tick should not collide, got %v", res.Collision)
	}
	if s.snake[0] != (core.Position{X: 6, Y: 5}) {
		t.Fatalf("expected head at (6,5), got %v", s.snake[0])
	}

	res = mustTick(t, s)
	if res.Collision != CauseSelf {
		t.Fatalf("expected self collision, got %v", res.Collision)
	}
	if s.Lifecycle().Phase != PhaseGameOver {
		t.Errorf("expected game over, got %v", s.Lifecycle())
	}
	if len(s.snake) != 7 || s.snake[0] != (core.Position{X: 6, Y: 5}) {
		t.Errorf("snake should be left as it was before the fatal tick, got %v", s.snake)
	}
}

func TestMovingIntoVacatingTailIsFatal(t *testing.T) {
	s := newRunning(t, noSuper(), 1)
	s.food.Position = core.Position{X: 0, Y: 0}
	s.snake = []core.Position{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}}
	s.heading = core.Down

	res := mustTick(t, s)

	if res.Collision != CauseSelf {
		t.Errorf("head into tail cell should be fatal, got %v", res.Collision)
	}
}

func TestWallCollision(t *testing.T) {
	settings := noSuper()
	settings.Start = core.Position{X: 16, Y: 10}
	s := newRunning(t, settings, 1)
	s.food.Position = core.Position{X: 0, Y: 0}
	events := recordEvents(s)

	res := mustTick(t, s)

	if res.Collision != CauseWall {
		t.Fatalf("expected wall collision, got %v", res.Collision)
	}
	if s.Ticks() != 1 {
		t.Errorf("fatal tick should still count, got %d", s.Ticks())
	}
	if s.snake[0] != (core.Position{X: 16, Y: 10}) {
		t.Errorf("snake should not move on a fatal tick, got %v", s.snake)
	}
	if len(*events) != 1 || (*events)[0].Kind != EventGameOver {
		t.Fatalf("expected one game over event, got %v", kinds(*events))
	}
	if r := (*events)[0].Result; r == nil || r.Cause != CauseWall || r.Ticks != 1 {
		t.Errorf("unexpected game over result %+v", r)
	}
}

func TestTickIgnoredOutsideRunning(t *testing.T) {
	s := newSession(t, DefaultSettings(), 1)

	res := mustTick(t, s)
	if res.Applied || s.Ticks() != 0 {
		t.Error("tick must not run during countdown")
	}

	settings := noSuper()
	settings.Start = core.Position{X: 16, Y: 0}
	over := newRunning(t, settings, 1)
	mustTick(t, over)
	before := over.Snapshot()

	res = mustTick(t, over)
	if res.Applied {
		t.Error("tick must not run after game over")
	}
	if !reflect.DeepEqual(before, over.Snapshot()) {
		t.Error("state changed after game over")
	}
}

func TestSuperFoodExpires(t *testing.T) {
	s := newRunning(t, noSuper(), 1)
	s.food.Position = core.Position{X: 0, Y: 0}
	s.super = &SuperFoodInstance{
		Position:       core.Position{X: 0, Y: 16},
		Type:           DefaultCatalog().Super[0],
		RemainingTicks: 1,
	}
	events := recordEvents(s)

	res := mustTick(t, s)

	if !res.SuperExpired {
		t.Error("expected super food to expire")
	}
	if s.super != nil {
		t.Error("expired super food should be removed")
	}
	if s.Score() != 0 {
		t.Errorf("expiry must not change the score, got %d", s.Score())
	}
	if !reflect.DeepEqual(kinds(*events), []EventKind{EventSuperExpire}) {
		t.Errorf("expected super_expire event, got %v", kinds(*events))
	}
}

func TestSuperFoodExpiresBeforeItCanBeEaten(t *testing.T) {
	s := newRunning(t, noSuper(), 1)
	s.food.Position = core.Position{X: 0, Y: 0}
	s.super = &SuperFoodInstance{
		Position:       core.Position{X: 11, Y: 10},
		Type:           DefaultCatalog().Super[0],
		RemainingTicks: 1,
	}

	res := mustTick(t, s)

	if res.AteSuper || s.Score() != 0 {
		t.Errorf("super food on its last tick should expire first, score %d", s.Score())
	}
	if len(s.snake) != 1 {
		t.Errorf("snake should not grow, length %d", len(s.snake))
	}
}

func TestEatSuperFood(t *testing.T) {
	s := newRunning(t, noSuper(), 1)
	s.food.Position = core.Position{X: 0, Y: 0}
	s.super = &SuperFoodInstance{
		Position:       core.Position{X: 11, Y: 10},
		Type:           DefaultCatalog().Super[0],
		RemainingTicks: 10,
	}
	events := recordEvents(s)

	res := mustTick(t, s)

	if !res.AteSuper || !res.Grew {
		t.Errorf("expected to eat super food, got %+v", res)
	}
	if s.Score() != 5 {
		t.Errorf("expected score 5, got %d", s.Score())
	}
	if s.super != nil {
		t.Error("eaten super food should be removed")
	}
	if s.food.Position != (core.Position{X: 0, Y: 0}) {
		t.Error("ordinary food should not respawn when super food is eaten")
	}
	if !reflect.DeepEqual(kinds(*events), []EventKind{EventSuperEat}) {
		t.Errorf("expected super_eat event, got %v", kinds(*events))
	}
}

func TestSuperFoodSpawnsAfterMeal(t *testing.T) {
	settings := DefaultSettings()
	settings.SuperSpawnChance = 1
	s := newRunning(t, settings, 3)
	s.food.Position = core.Position{X: 11, Y: 10}
	events := recordEvents(s)

	mustTick(t, s)

	if s.super == nil {
		t.Fatal("expected super food to spawn with chance 1")
	}
	if s.super.RemainingTicks != 50 {
		t.Errorf("expected 50 remaining ticks, got %d", s.super.RemainingTicks)
	}
	if s.isSnakeAt(s.super.Position) || s.super.Position == s.food.Position {
		t.Errorf("super food overlaps snake or food at %v", s.super.Position)
	}
	if !reflect.DeepEqual(kinds(*events), []EventKind{EventEat, EventSuperSpawn}) {
		t.Errorf("expected eat then super_spawn, got %v", kinds(*events))
	}

	// A second meal while super food is active must not replace it.
	s.super.Position = core.Position{X: 0, Y: 16}
	s.food.Position = core.Position{X: 12, Y: 10}
	mustTick(t, s)

	if s.super == nil || s.super.Position != (core.Position{X: 0, Y: 16}) {
		t.Fatalf("active super food was replaced: %+v", s.super)
	}
	if s.super.RemainingTicks != 49 {
		t.Errorf("expected 49 remaining ticks, got %d", s.super.RemainingTicks)
	}
}

func TestFoodSpawnSkipsSuperFood(t *testing.T) {
	settings := noSuper()
	settings.GridSize = 2
	settings.Start = core.Position{X: 0, Y: 0}
	s := newRunning(t, settings, 5)
	s.super = &SuperFoodInstance{
		Position:       core.Position{X: 1, Y: 1},
		Type:           DefaultCatalog().Super[0],
		RemainingTicks: 10,
	}
	s.food.Position = core.Position{X: 1, Y: 0}

	mustTick(t, s)

	// Snake covers (1,0) and (0,0), super food covers (1,1).
	if s.food.Position != (core.Position{X: 0, Y: 1}) {
		t.Errorf("expected food at the only free cell (0,1), got %v", s.food.Position)
	}
}

func TestGridFullReturnsError(t *testing.T) {
	settings := noSuper()
	settings.GridSize = 2
	settings.Start = core.Position{X: 0, Y: 0}
	s := newRunning(t, settings, 1)
	s.snake = []core.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	s.heading = core.Down
	s.food.Position = core.Position{X: 0, Y: 1}

	events := recordEvents(s)

	res, err := s.Tick()

	if !errors.Is(err, core.ErrGridFull) {
		t.Errorf("expected ErrGridFull, got %v", err)
	}
	if res.Collision != CauseBoardFull || !res.Grew {
		t.Errorf("expected a grown board-full tick, got %+v", res)
	}
	if got := s.Lifecycle(); got.Phase != PhaseGameOver {
		t.Fatalf("expected game over, got %v", got)
	}
	if !reflect.DeepEqual(kinds(*events), []EventKind{EventEat, EventGameOver}) {
		t.Errorf("unexpected events %v", kinds(*events))
	}

	snap := s.Snapshot()
	if len(snap.Snake) != 4 || snap.Head() != (core.Position{X: 0, Y: 1}) {
		t.Errorf("expected the snake to fill the board, got %v", snap.Snake)
	}
	if snap.Result == nil || snap.Result.Cause != CauseBoardFull || snap.Result.Eaten != 1 || snap.Result.Length != 4 {
		t.Errorf("expected a final board-full result, got %+v", snap.Result)
	}

	// The session is terminal, so further ticks do nothing.
	if res := mustTick(t, s); res.Applied {
		t.Error("tick applied after board-full game over")
	}
}

func TestCountdownLifecycle(t *testing.T) {
	s := newSession(t, DefaultSettings(), 1)
	events := recordEvents(s)

	for _, want := range []int{2, 1, 0} {
		if !s.AdvanceCountdown() {
			t.Fatal("AdvanceCountdown should change state while starting")
		}
		if got := s.Lifecycle(); got != (Lifecycle{Phase: PhaseStarting, Countdown: want}) {
			t.Fatalf("expected starting(%d), got %v", want, got)
		}
		if res := mustTick(t, s); res.Applied {
			t.Fatalf("tick ran during %v", s.Lifecycle())
		}
	}

	s.AdvanceCountdown()
	if s.Lifecycle().Phase != PhaseRunning {
		t.Fatalf("expected running, got %v", s.Lifecycle())
	}
	if s.AdvanceCountdown() {
		t.Error("AdvanceCountdown should do nothing while running")
	}

	want := []EventKind{EventCountdown, EventCountdown, EventCountdown, EventGameStart}
	if !reflect.DeepEqual(kinds(*events), want) {
		t.Errorf("expected %v, got %v", want, kinds(*events))
	}
	if s.Ticks() != 0 {
		t.Errorf("no tick should have run, got %d", s.Ticks())
	}
}

func TestZeroCountdownStartsOnFirstFiring(t *testing.T) {
	settings := DefaultSettings()
	settings.CountdownFrom = 0
	s := newSession(t, settings, 1)

	s.AdvanceCountdown()
	if s.Lifecycle().Phase != PhaseRunning {
		t.Errorf("expected running, got %v", s.Lifecycle())
	}
}

func TestRestart(t *testing.T) {
	settings := noSuper()
	settings.Start = core.Position{X: 16, Y: 10}
	s := newSession(t, settings, 1)
	events := recordEvents(s)

	if err := s.Restart(); !errors.Is(err, ErrNotGameOver) {
		t.Fatalf("expected ErrNotGameOver while starting, got %v", err)
	}
	for s.Lifecycle().Phase != PhaseRunning {
		s.AdvanceCountdown()
	}
	if err := s.Restart(); !errors.Is(err, ErrNotGameOver) {
		t.Fatalf("expected ErrNotGameOver while running, got %v", err)
	}

	s.score = 7
	s.EnqueueDirection(core.Up)
	s.EnqueueDirection(core.Right)
	s.food.Position = core.Position{X: 0, Y: 0}
	mustTick(t, s) // up to (16,9)
	mustTick(t, s) // right into the wall
	if s.Lifecycle().Phase != PhaseGameOver {
		t.Fatalf("expected game over, got %v", s.Lifecycle())
	}
	if s.EnqueueDirection(core.Left) {
		t.Error("input should be rejected after game over")
	}

	if err := s.Restart(); err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Lifecycle != (Lifecycle{Phase: PhaseStarting, Countdown: 3}) {
		t.Errorf("expected starting(3), got %v", snap.Lifecycle)
	}
	if snap.Score != 0 || snap.Tick != 0 || snap.Pending != 0 || snap.Super != nil {
		t.Errorf("state not reset: %+v", snap)
	}
	if !reflect.DeepEqual(snap.Snake, []core.Position{{X: 16, Y: 10}}) || snap.Heading != core.Right {
		t.Errorf("snake not reset: %v heading %v", snap.Snake, snap.Heading)
	}
	if snap.Result != nil {
		t.Error("restarted session should not carry a result")
	}

	n := len(*events)
	s.AdvanceCountdown()
	if len(*events) != n+1 {
		t.Error("subscribers should survive a restart")
	}
}

func TestResultMoveLog(t *testing.T) {
	s := newRunning(t, noSuper(), 1)
	s.food.Position = core.Position{X: 0, Y: 0}

	s.EnqueueDirection(core.Right) // same heading, not a move
	s.EnqueueDirection(core.Up)
	s.EnqueueDirection(core.Left)
	for i := 0; i < 4; i++ {
		mustTick(t, s)
	}

	r := s.Result()
	want := []Move{{Tick: 2, Direction: core.Up}, {Tick: 3, Direction: core.Left}}
	if !reflect.DeepEqual(r.MoveLog, want) {
		t.Errorf("expected move log %v, got %v", want, r.MoveLog)
	}
	if r.Moves != 2 || r.Ticks != 4 {
		t.Errorf("expected 2 moves over 4 ticks, got %d over %d", r.Moves, r.Ticks)
	}
	if r.Duration != 4*120*time.Millisecond {
		t.Errorf("expected 480ms, got %v", r.Duration)
	}

	r.MoveLog[0].Direction = core.Down
	if s.Result().MoveLog[0].Direction != core.Up {
		t.Error("Result should return a copy of the move log")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newRunning(t, DefaultSettings(), 1)
	snap := s.Snapshot()

	snap.Snake[0] = core.Position{X: 99, Y: 99}
	if s.snake[0] == (core.Position{X: 99, Y: 99}) {
		t.Error("mutating a snapshot changed the session")
	}
}

func TestUnsubscribe(t *testing.T) {
	s := newSession(t, DefaultSettings(), 1)
	count := 0
	unsubscribe := s.Subscribe(func(Event) { count++ })

	s.AdvanceCountdown()
	unsubscribe()
	s.AdvanceCountdown()

	if count != 1 {
		t.Errorf("expected 1 event before unsubscribe, got %d", count)
	}
}

// steer returns a pseudo-random direction from a fixed pattern so long runs
// keep turning without needing a second random source.
func steer(i int) core.Direction {
	pattern := []core.Direction{core.Up, core.Left, core.Down, core.Right, core.Down, core.Left}
	return pattern[i%len(pattern)]
}

func TestDeterminism(t *testing.T) {
	settings := DefaultSettings()
	settings.SuperSpawnChance = 0.5

	s1 := newRunning(t, settings, 12345)
	s2 := newRunning(t, settings, 12345)

	for i := 0; i < 300; i++ {
		if i%7 == 0 {
			s1.EnqueueDirection(steer(i))
			s2.EnqueueDirection(steer(i))
		}
		if _, err := s1.Tick(); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
		if _, err := s2.Tick(); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}

	if !reflect.DeepEqual(s1.Snapshot(), s2.Snapshot()) {
		t.Error("sessions with the same seed and input diverged")
	}
}

func TestInvariantsHoldOverRandomPlay(t *testing.T) {
	settings := DefaultSettings()
	settings.SuperSpawnChance = 0.5

	for seed := int64(1); seed <= 20; seed++ {
		s := newRunning(t, settings, seed)
		rng := rand.New(rand.NewSource(seed * 31))
		dirs := []core.Direction{core.Up, core.Down, core.Left, core.Right}

		for i := 0; i < 500 && s.Lifecycle().Phase == PhaseRunning; i++ {
			s.EnqueueDirection(dirs[rng.Intn(len(dirs))])
			prevLen := len(s.snake)

			res, err := s.Tick()
			if err != nil {
				t.Fatalf("seed %d: Tick() failed: %v", seed, err)
			}

			switch {
			case res.Collision != CauseNone:
				if len(s.snake) != prevLen {
					t.Fatalf("seed %d: length changed on a fatal tick", seed)
				}
			case res.Grew:
				if len(s.snake) != prevLen+1 {
					t.Fatalf("seed %d: expected growth by one", seed)
				}
			default:
				if len(s.snake) != prevLen {
					t.Fatalf("seed %d: length changed without eating", seed)
				}
			}

			if len(s.snake) != 1+s.eaten {
				t.Fatalf("seed %d: length %d does not match %d meals", seed, len(s.snake), s.eaten)
			}

			seen := make(map[core.Position]bool)
			for _, p := range s.snake {
				if seen[p] {
					t.Fatalf("seed %d: duplicate segment %v", seed, p)
				}
				if !s.grid.Contains(p) {
					t.Fatalf("seed %d: segment %v outside grid", seed, p)
				}
				seen[p] = true
			}
			if seen[s.food.Position] {
				t.Fatalf("seed %d: food under the snake", seed)
			}
			if s.super != nil && (s.super.Position == s.food.Position || s.super.RemainingTicks <= 0) {
				t.Fatalf("seed %d: bad super food %+v", seed, s.super)
			}
		}
	}
}
