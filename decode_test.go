package tcfg_test

import (
	"errors"
	"testing"

	tcfg "github.com/tcodtools/tcfg-go"
)

func TestDecodeInt(t *testing.T) {
	for _, test := range []struct {
		input   string
		bitSize int
		want    int64
		wantErr bool
	}{
		{input: "42", bitSize: 64, want: 42},
		{input: "-17", bitSize: 8, want: -17},
		{input: "0x1F", bitSize: 64, want: 31},
		{input: "-0x1F", bitSize: 64, want: -31},
		{input: "300", bitSize: 8, wantErr: true},
		{input: "3.5", bitSize: 64, wantErr: true},
		{input: `"42"`, bitSize: 64, wantErr: true},
	} {
		d := tcfg.NewDecoder(test.input)
		got, err := d.Int(test.bitSize)
		if test.wantErr {
			if err == nil {
				t.Errorf("Int(%q): expected error, got %d", test.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Int(%q): %v", test.input, err)
		} else if got != test.want {
			t.Errorf("Int(%q): expected %d, got %d", test.input, test.want, got)
		}
	}
}

func TestDecodeUint(t *testing.T) {
	d := tcfg.NewDecoder("0xFF")
	got, err := d.Uint(8)
	if err != nil || got != 255 {
		t.Errorf("expected 255, got %d (%v)", got, err)
	}

	d = tcfg.NewDecoder("-1")
	if _, err := d.Uint(8); err == nil {
		t.Errorf("expected error for negative literal")
	}
}

func TestDecodeFloat(t *testing.T) {
	for _, test := range []struct {
		input string
		want  float64
	}{
		{"3.5", 3.5},
		{".5", 0.5},
		{"5.", 5},
		{"-1.25e2", -125},
	} {
		d := tcfg.NewDecoder(test.input)
		got, err := d.Float(64)
		if err != nil {
			t.Errorf("Float(%q): %v", test.input, err)
		} else if got != test.want {
			t.Errorf("Float(%q): expected %v, got %v", test.input, test.want, got)
		}
	}

	// integer literals are not silently widened
	d := tcfg.NewDecoder("3")
	if _, err := d.Float(64); err == nil {
		t.Errorf("expected error for integer literal")
	}
}

func TestDecodeBool(t *testing.T) {
	d := tcfg.NewDecoder("fullscreen")
	got, err := d.Bool()
	if err != nil || !got {
		t.Errorf("expected true, got %v (%v)", got, err)
	}

	d = tcfg.NewDecoder("42")
	if _, err := d.Bool(); err == nil {
		t.Errorf("expected error for non-identifier")
	}
}

func TestDecodeChar(t *testing.T) {
	for _, test := range []struct {
		input   string
		want    rune
		wantErr error
	}{
		{input: "'a'", want: 'a'},
		{input: `'\n'`, want: '\n'},
		{input: `'\t'`, want: '\t'},
		{input: `'\r'`, want: '\r'},
		{input: `'\\'`, want: '\\'},
		{input: `'\"'`, want: '"'},
		{input: `'\''`, want: '\''},
		{input: `'\x41'`, want: 'A'},
		{input: `'\x9F'`, want: 0x9F},
		{input: `'\101'`, want: 'A'},
		{input: `'\200'`, want: 0x80},
		{input: "65", want: 'A'},
		{input: "0x41", want: 'A'},
		{input: "'ab'", wantErr: tcfg.ErrNotSingleChar},
		{input: `'\q'`, wantErr: tcfg.ErrInvalidEscape},
	} {
		d := tcfg.NewDecoder(test.input)
		got, err := d.Char()
		if test.wantErr != nil {
			var charErr *tcfg.InvalidCharError
			if !errors.As(err, &charErr) {
				t.Errorf("Char(%q): expected InvalidCharError, got %v", test.input, err)
			} else if !errors.Is(err, test.wantErr) {
				t.Errorf("Char(%q): expected %v, got %v", test.input, test.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Char(%q): %v", test.input, err)
		} else if got != test.want {
			t.Errorf("Char(%q): expected %q, got %q", test.input, test.want, got)
		}
	}

	// numeric escapes that do not fit in a byte
	for _, input := range []string{`'\777'`, `'\xFFF'`, "300"} {
		d := tcfg.NewDecoder(input)
		var charErr *tcfg.InvalidCharError
		if _, err := d.Char(); !errors.As(err, &charErr) {
			t.Errorf("Char(%q): expected InvalidCharError, got %v", input, err)
		}
	}
}

func TestDecodeStrings(t *testing.T) {
	d := tcfg.NewDecoder(`"abc"`)
	got, err := d.Str()
	if err != nil || got != "abc" {
		t.Errorf("expected abc, got %q (%v)", got, err)
	}

	d = tcfg.NewDecoder(`"ab" "cd"`)
	got, err = d.Text()
	if err != nil || got != "abcd" {
		t.Errorf("expected abcd, got %q (%v)", got, err)
	}

	d = tcfg.NewDecoder(`"ab" "cd"`)
	var multiErr *tcfg.MultiSegmentStringError
	if _, err := d.Str(); !errors.As(err, &multiErr) {
		t.Errorf("expected MultiSegmentStringError, got %v", err)
	}
}

func decodeInts(d *tcfg.Decoder) ([]int64, error) {
	var out []int64
	err := d.Seq(func(d *tcfg.Decoder) error {
		n, err := d.Int(64)
		if err != nil {
			return err
		}
		out = append(out, n)
		return nil
	})
	return out, err
}

func TestDecodeSeq(t *testing.T) {
	got, err := decodeInts(tcfg.NewDecoder("[1, 2, 3]"))
	if err != nil || len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("expected [1 2 3], got %v (%v)", got, err)
	}

	got, err = decodeInts(tcfg.NewDecoder("[]"))
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty sequence, got %v (%v)", got, err)
	}

	// trailing commas are accepted
	got, err = decodeInts(tcfg.NewDecoder("[1, 2,]"))
	if err != nil || len(got) != 2 {
		t.Errorf("expected [1 2], got %v (%v)", got, err)
	}

	var tokErr *tcfg.UnexpectedTokenError
	if _, err := decodeInts(tcfg.NewDecoder("[1 2]")); !errors.As(err, &tokErr) {
		t.Errorf("expected UnexpectedTokenError, got %v", err)
	}
}

func TestDecodeStruct(t *testing.T) {
	input := `widget "lamp" { weight = 3 }`
	fields := []string{"name", "weight"}

	gotName := ""
	var gotWeight int64
	d := tcfg.NewDecoder(input)
	err := d.Struct("widget", fields, func(name string, d *tcfg.Decoder) error {
		switch name {
		case "name":
			s, err := d.Str()
			gotName = s
			return err
		case "weight":
			n, err := d.Int(64)
			gotWeight = n
			return err
		}
		t.Fatalf("unexpected field %q", name)
		return nil
	})
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	if gotName != "lamp" || gotWeight != 3 {
		t.Errorf("expected lamp/3, got %q/%d", gotName, gotWeight)
	}

	var structErr *tcfg.UnexpectedStructError
	d = tcfg.NewDecoder(input)
	err = d.Struct("gadget", fields, func(string, *tcfg.Decoder) error { return nil })
	if !errors.As(err, &structErr) {
		t.Fatalf("expected UnexpectedStructError, got %v", err)
	}
	if structErr.Name != "widget" || structErr.Expected != "gadget" {
		t.Errorf("expected widget/gadget, got %q/%q", structErr.Name, structErr.Expected)
	}

	// checked before a single token is consumed
	var nameErr *tcfg.MissingNameFieldError
	d = tcfg.NewDecoder("@!?")
	err = d.Struct("widget", []string{"weight"}, func(string, *tcfg.Decoder) error { return nil })
	if !errors.As(err, &nameErr) {
		t.Fatalf("expected MissingNameFieldError, got %v", err)
	}
}

func TestDecodeStructDefaultName(t *testing.T) {
	gotName := "sentinel"
	d := tcfg.NewDecoder(`widget { }`)
	err := d.Struct("widget", []string{"name"}, func(name string, d *tcfg.Decoder) error {
		s, err := d.Str()
		gotName = s
		return err
	})
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	if gotName != "" {
		t.Errorf("expected empty instance name, got %q", gotName)
	}
}

func TestUnclosedCommentError(t *testing.T) {
	d := tcfg.NewDecoder("/* never closed")
	var commentErr *tcfg.UnclosedCommentError
	if _, err := d.Int(64); !errors.As(err, &commentErr) {
		t.Fatalf("expected UnclosedCommentError, got %v", err)
	}
}
