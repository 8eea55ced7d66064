package notation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func org(s string) *Origin { return parseOrigin(s) }

func sq(s string) Square {
	v, ok := ParseSquare(s)
	if !ok {
		panic("bad square " + s)
	}
	return v
}

func TestParse_Accepted(t *testing.T) {
	cases := []struct {
		in   string
		want PartialMove
	}{
		{"e4", PartialMove{Piece: Pawn, To: sq("e4")}},
		{"Nf3", PartialMove{Piece: Knight, To: sq("f3")}},
		{"exd5", PartialMove{Piece: Pawn, Origin: org("e"), To: sq("d5"), Capture: true}},
		{"e2e4", PartialMove{Piece: Pawn, Origin: org("e2"), To: sq("e4")}},
		{"h1Rd1", PartialMove{Piece: Rook, Origin: org("h1"), To: sq("d1")}},
		{"Rhd1", PartialMove{Piece: Rook, Origin: org("h"), To: sq("d1")}},
		{"N1f3", PartialMove{Piece: Knight, Origin: org("1"), To: sq("f3")}},
		{"Qh4xe1", PartialMove{Piece: Queen, Origin: org("h4"), To: sq("e1"), Capture: true}},
		{"Bb5+", PartialMove{Piece: Bishop, To: sq("b5")}},
		{"Qxf7#", PartialMove{Piece: Queen, To: sq("f7"), Capture: true}},
		{"e8=Q", PartialMove{Piece: Pawn, To: sq("e8"), Promotion: Queen}},
		{"gxf1=N+", PartialMove{Piece: Pawn, Origin: org("g"), To: sq("f1"), Capture: true, Promotion: Knight}},
		{"Ke8", PartialMove{Piece: King, To: sq("e8")}},
		{"O-O", PartialMove{Piece: King, Castle: Kingside}},
		{"O-O-O", PartialMove{Piece: King, Castle: Queenside}},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParse_Rejected(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"", ErrMalformedMove},
		{"nf3", ErrMalformedMove},
		{"E4", ErrMalformedMove},
		{"e9", ErrMalformedMove},
		{"Pe4", ErrMalformedMove},
		{" e4", ErrMalformedMove},
		{"o-o", ErrMalformedMove},
		{"0-0", ErrMalformedMove},
		{"O-O+", ErrMalformedMove},
		{"e4=Q", ErrMalformedMove},
		{"Ne8=Q", ErrMalformedMove},
		{"e8=K", ErrMalformedMove},
		{"e8Q", ErrMalformedMove},
		{"e8+=Q", ErrMalformedMove},
		{"e8", ErrMissingPromotion},
		{"dxe1", ErrMissingPromotion},
		{"e7e8", ErrMissingPromotion},
	}
	for _, tc := range cases {
		_, err := Parse(tc.in)
		if !errors.Is(err, tc.want) {
			t.Fatalf("Parse(%q) err=%v, want %v", tc.in, err, tc.want)
		}
		var perr *Error
		if !errors.As(err, &perr) || perr.Input != tc.in {
			t.Fatalf("Parse(%q) expected *Error carrying input, got %#v", tc.in, err)
		}
	}
}

func TestPartialMove_StringRoundTrip(t *testing.T) {
	for _, in := range []string{"e4", "h1Rd1", "exd5", "e7e8=Q", "O-O-O", "b1Nxc3"} {
		mv, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got := mv.String(); got != in {
			t.Fatalf("String() = %q, want %q", got, in)
		}
	}
}

func TestOrigin_Matches(t *testing.T) {
	o := org("h")
	if !o.Matches(sq("h1")) || o.Matches(sq("a1")) {
		t.Fatalf("file hint matching broken")
	}
	r := org("1")
	if !r.Matches(sq("a1")) || r.Matches(sq("a2")) {
		t.Fatalf("rank hint matching broken")
	}
	if !org("e2").IsSquare() || org("e").IsSquare() {
		t.Fatalf("IsSquare mismatch")
	}
}
