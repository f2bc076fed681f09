package validate

import "testing"

func TestID(t *testing.T) {
	for _, s := range []string{"eq-basketball", "u_admin", "ABC123"} {
		if _, ok := ID(s); !ok {
			t.Errorf("ID(%q) should pass", s)
		}
	}
	for _, s := range []string{"", "   ", "has space", "semi;colon", "x/y"} {
		if _, ok := ID(s); ok {
			t.Errorf("ID(%q) should fail", s)
		}
	}
}

func TestTimeOfDay(t *testing.T) {
	for _, s := range []string{"", "9:05", "17:00", "23:59", " 08:30 "} {
		if _, ok := TimeOfDay(s); !ok {
			t.Errorf("TimeOfDay(%q) should pass", s)
		}
	}
	for _, s := range []string{"24:00", "17:60", "5pm", "1700", "17:0"} {
		if _, ok := TimeOfDay(s); ok {
			t.Errorf("TimeOfDay(%q) should fail", s)
		}
	}
}

func TestQty(t *testing.T) {
	if n, ok := Qty("3"); !ok || n != 3 {
		t.Fatalf("Qty(3) = %d, %v", n, ok)
	}
	for _, s := range []string{"0", "-1", "2.5", "three", ""} {
		if _, ok := Qty(s); ok {
			t.Errorf("Qty(%q) should fail", s)
		}
	}
}

func TestRegNo(t *testing.T) {
	if _, ok := RegNo("01FE21BCS101"); !ok {
		t.Error("RegNo(01FE21BCS101) should pass")
	}
	for _, s := range []string{"??", "ab", "with space 123"} {
		if _, ok := RegNo(s); ok {
			t.Errorf("RegNo(%q) should fail", s)
		}
	}
}

func TestPassword(t *testing.T) {
	for _, s := range []string{"Student123!", "Aa345678"} {
		if !Password(s) {
			t.Errorf("Password(%q) should pass", s)
		}
	}
	for _, s := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		if Password(s) {
			t.Errorf("Password(%q) should fail", s)
		}
	}
}
