package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	"github.com/park285/chessduel/internal/adapter/chesspresenter"
	"github.com/park285/chessduel/internal/archive"
	"github.com/park285/chessduel/internal/irisfast"
	"github.com/park285/chessduel/internal/msgcat"
	"github.com/park285/chessduel/internal/pvpchess"
	"github.com/park285/chessduel/internal/render"
)

type outbox struct {
	texts  []string
	images int
}

func (o *outbox) SendText(_ context.Context, _, message string) error {
	o.texts = append(o.texts, message)
	return nil
}

func (o *outbox) SendImage(context.Context, string, string) error {
	o.images++
	return nil
}

func (o *outbox) last() string {
	if len(o.texts) == 0 {
		return ""
	}
	return o.texts[len(o.texts)-1]
}

type harness struct {
	h   *Handler
	out *outbox
	mgr *pvpchess.Manager
}

func newHarness(t *testing.T, withHistory bool) *harness {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	mgr := pvpchess.NewManager(pvpchess.NewRegistry(), render.NewSVGBoardRenderer())
	if withHistory {
		mr, err := miniredis.Run()
		if err != nil {
			t.Fatalf("miniredis: %v", err)
		}
		t.Cleanup(mr.Close)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		store := archive.NewRedisStore(rdb, time.Hour, 10)
		mgr.AttachSink(store)
		mgr.AttachHistory(store)
	}
	out := &outbox{}
	h := NewHandler(Options{Prefix: "!", HistoryLimit: 5, RoomAllowed: func(r string) bool { return r != "blocked" }},
		mgr, chesspresenter.NewFormatter(cat, chesspresenter.StaticPrefix("!")), chesspresenter.NewPresenter(out))
	return &harness{h: h, out: out, mgr: mgr}
}

func chat(user, text string, mentions ...irisfast.Mention) *irisfast.Message {
	name := user
	m := &irisfast.Message{Msg: text, Room: "room-1", Sender: &name, JSON: &irisfast.MessageJSON{UserID: "id-" + user}}
	m.JSON.Mentions = mentions
	return m
}

func (hs *harness) send(m *irisfast.Message) string {
	hs.h.Handle(context.Background(), m)
	return hs.out.last()
}

var bobMention = irisfast.Mention{UserID: "id-bob", Name: "bob"}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		want Command
		ok   bool
	}{
		{"!move Nf3", Command{Name: "move", Args: []string{"Nf3"}, Raw: "Nf3"}, true},
		{"  !START @bob as black ", Command{Name: "start", Args: []string{"@bob", "as", "black"}, Raw: "@bob as black"}, true},
		{"!draw", Command{Name: "draw", Raw: ""}, true},
		{"!resign   ", Command{Name: "resign"}, true},
		{"move Nf3", Command{}, false},
		{"!", Command{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseCommand("!", tc.in)
		if ok != tc.ok {
			t.Fatalf("%q ok=%v", tc.in, ok)
		}
		if diff := cmp.Diff(tc.want, got); ok && diff != "" {
			t.Fatalf("%q (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestStartPreferenceAndLimit(t *testing.T) {
	if got := startPreference([]string{"@bob", "as", "black"}); got != pvpchess.PreferBlack {
		t.Fatalf("as black -> %s", got)
	}
	if got := startPreference([]string{"@bob", "random"}); got != pvpchess.PreferRandom {
		t.Fatalf("random -> %s", got)
	}
	if got := startPreference([]string{"@bob"}); got != pvpchess.PreferWhite {
		t.Fatalf("default -> %s", got)
	}
	if historyLimit(nil, 5) != 5 || historyLimit([]string{"2"}, 5) != 2 || historyLimit([]string{"50"}, 5) != 5 || historyLimit([]string{"x"}, 5) != 5 {
		t.Fatalf("historyLimit mismatch")
	}
}

func TestStart_MentionRules(t *testing.T) {
	hs := newHarness(t, false)
	const invalid = "Start commands must mention exactly one other user that isn't yourself or a bot."

	if got := hs.send(chat("alice", "!start")); got != invalid {
		t.Fatalf("no mention: %q", got)
	}
	if got := hs.send(chat("alice", "!start @x", irisfast.Mention{UserID: "id-alice"})); got != invalid {
		t.Fatalf("self mention: %q", got)
	}
	if got := hs.send(chat("alice", "!start @bot", irisfast.Mention{UserID: "b", Bot: true})); got != invalid {
		t.Fatalf("bot mention: %q", got)
	}
	if got := hs.send(chat("alice", "!start", bobMention, irisfast.Mention{UserID: "id-carol"})); got != invalid {
		t.Fatalf("two mentions: %q", got)
	}

	got := hs.send(chat("alice", "!start @bob", bobMention))
	if !strings.HasPrefix(got, "Game started! alice (white) vs bob (black)") || hs.out.images != 1 {
		t.Fatalf("start: %q images=%d", got, hs.out.images)
	}
	if got := hs.send(chat("alice", "!start @carol", irisfast.Mention{UserID: "id-carol"})); !strings.HasPrefix(got, "You're already in a game") {
		t.Fatalf("self busy: %q", got)
	}
	if got := hs.send(chat("carol", "!start @bob", bobMention)); got != "That user is already in a game." {
		t.Fatalf("opponent busy: %q", got)
	}
}

func TestStart_AtTokenFallback(t *testing.T) {
	hs := newHarness(t, false)
	m := chat("alice", "!start @dave as black")
	if got := hs.send(m); !strings.HasPrefix(got, "Game started! dave (white) vs alice (black)") {
		t.Fatalf("@token start: %q", got)
	}
}

func TestGameFlow(t *testing.T) {
	hs := newHarness(t, true)
	hs.send(chat("alice", "!start @bob", bobMention))

	if got := hs.send(chat("bob", "!move e5")); got != "It's not your turn." {
		t.Fatalf("wrong turn: %q", got)
	}
	if got := hs.send(chat("alice", "!move e4")); got != "alice played e4. bob to move." {
		t.Fatalf("e4: %q", got)
	}
	if got := hs.send(chat("bob", "!move Qd4d5")); got != "Given movestring is not a legal move" {
		t.Fatalf("origin without queen: %q", got)
	}
	if got := hs.send(chat("bob", "!move Ke7")); got != "Given movestring is not a legal move" {
		t.Fatalf("illegal: %q", got)
	}
	if got := hs.send(chat("bob", "!move zz")); !strings.HasPrefix(got, "Improperly formatted move string") {
		t.Fatalf("malformed: %q", got)
	}
	if got := hs.send(chat("bob", "!move")); !strings.HasPrefix(got, "Usage: !move") {
		t.Fatalf("usage: %q", got)
	}
	if got := hs.send(chat("carol", "!move e5")); !strings.HasPrefix(got, "I don't see a game you're in.") {
		t.Fatalf("no game: %q", got)
	}

	if got := hs.send(chat("bob", "!draw")); !strings.HasPrefix(got, "bob has offered a draw.") {
		t.Fatalf("offer: %q", got)
	}
	if got := hs.send(chat("bob", "!draw")); got != "You've already offered a draw." {
		t.Fatalf("redundant: %q", got)
	}
	if got := hs.send(chat("bob", "!board")); !strings.Contains(got, "draw offered") {
		t.Fatalf("board caption: %q", got)
	}
	if got := hs.send(chat("bob", "!resign")); got != "bob resigned.\nalice wins by resignation." {
		t.Fatalf("resign: %q", got)
	}
	if got := hs.send(chat("alice", "!history")); !strings.Contains(got, "1. ✅ win vs bob · 1-0 (resignation) · 1 moves") {
		t.Fatalf("history: %q", got)
	}
	if got := hs.send(chat("alice", "!draw")); !strings.HasPrefix(got, "I don't see a game you're in.") {
		t.Fatalf("after game: %q", got)
	}
}

func TestScholarsMate(t *testing.T) {
	hs := newHarness(t, false)
	hs.send(chat("alice", "!start @bob", bobMention))
	moves := []struct{ who, mv string }{
		{"alice", "e4"}, {"bob", "e5"}, {"alice", "Bc4"}, {"bob", "Nc6"}, {"alice", "Qh5"}, {"bob", "Nf6"},
	}
	for _, m := range moves {
		if got := hs.send(chat(m.who, "!move "+m.mv)); strings.HasPrefix(got, "Given") || strings.HasPrefix(got, "It's") {
			t.Fatalf("%s %s: %q", m.who, m.mv, got)
		}
	}
	if got := hs.send(chat("alice", "!move Qxf7#")); got != "Checkmate! alice wins." {
		t.Fatalf("mate: %q", got)
	}
	if hs.mgr.Registry().InGame("id-alice") {
		t.Fatalf("game should be discarded after mate")
	}
}

func TestMiscCommands(t *testing.T) {
	hs := newHarness(t, false)
	if got := hs.send(chat("alice", "!ping")); got != "pong!" {
		t.Fatalf("ping: %q", got)
	}
	if got := hs.send(chat("alice", "!about")); got != "Lets you play chess in an inconvenient way." {
		t.Fatalf("about: %q", got)
	}
	if got := hs.send(chat("alice", "!help")); !strings.Contains(got, "!start @user") {
		t.Fatalf("help: %q", got)
	}
	if got := hs.send(chat("alice", "!dance")); !strings.HasPrefix(got, "Unknown command") {
		t.Fatalf("unknown: %q", got)
	}
	if got := hs.send(chat("alice", "!history")); got != "Game history is not configured." {
		t.Fatalf("history without store: %q", got)
	}

	n := len(hs.out.texts)
	blocked := chat("alice", "!ping")
	blocked.Room = "blocked"
	hs.h.Handle(context.Background(), blocked)
	hs.h.Handle(context.Background(), chat("alice", "hello there"))
	if len(hs.out.texts) != n {
		t.Fatalf("blocked room or plain chat should not be answered")
	}
}
