package decmath

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/precision"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func within(got, want decimal.Decimal, tol decimal.Decimal) bool {
	return got.Sub(want).Abs().LessThan(tol)
}

func TestFactorial(t *testing.T) {
	f0, err := Factorial(0)
	if err != nil || f0.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("Factorial(0) = %v, %v; want 1", f0, err)
	}

	prev := f0
	for n := 1; n <= 40; n++ {
		got, err := Factorial(n)
		if err != nil {
			t.Fatalf("Factorial(%d) error: %v", n, err)
		}
		want := new(big.Int).Mul(big.NewInt(int64(n)), prev)
		if got.Cmp(want) != 0 {
			t.Errorf("Factorial(%d) = %s, want %d·Factorial(%d) = %s", n, got, n, n-1, want)
		}
		prev = got
	}

	f20, _ := Factorial(20)
	if f20.String() != "2432902008176640000" {
		t.Errorf("Factorial(20) = %s", f20)
	}
}

func TestFactorial_Negative(t *testing.T) {
	if _, err := Factorial(-1); !errors.Is(err, dynamo.ErrDomain) {
		t.Errorf("Factorial(-1) error = %v, want ErrDomain", err)
	}
}

func TestPi(t *testing.T) {
	k := New(precision.MustNew(50))
	want := d("3.1415926535897932384626433832795028841971693993751")
	if !k.Pi().Equal(want) {
		t.Errorf("Pi() = %s, want %s", k.Pi(), want)
	}
}

func TestPi_BeyondLiteral(t *testing.T) {
	k := New(precision.MustNew(260))
	cmp := precision.MustNew(230)
	if !cmp.Round(k.Pi()).Equal(cmp.Round(d(piDigits))) {
		t.Errorf("Machin π disagrees with literal at 230 digits:\n got %s\nwant %s", cmp.Round(k.Pi()), cmp.Round(d(piDigits)))
	}
	if k.Pi().NumDigits() < 250 {
		t.Errorf("expected at least 250 significant digits, got %d", k.Pi().NumDigits())
	}
}

func TestSinCos_Identities(t *testing.T) {
	p := precision.MustNew(200)
	k := New(p)
	tol := d("1e-190")

	if got := k.Sin(decimal.Zero); !within(got, decimal.Zero, tol) {
		t.Errorf("Sin(0) = %s, want 0", got)
	}
	if got := k.Cos(decimal.Zero); !within(got, decimal.NewFromInt(1), tol) {
		t.Errorf("Cos(0) = %s, want 1", got)
	}

	halfPi := p.Quo(k.Pi(), decimal.NewFromInt(2))
	if got := k.Sin(halfPi); !within(got, decimal.NewFromInt(1), tol) {
		t.Errorf("Sin(π/2) = %s, want 1", got)
	}
	if got := k.Cos(k.Pi()); !within(got, decimal.NewFromInt(-1), tol) {
		t.Errorf("Cos(π) = %s, want -1", got)
	}
}

func TestSinCos_Pythagorean(t *testing.T) {
	p := precision.MustNew(200)
	k := New(p)
	tol := d("1e-190")
	one := decimal.NewFromInt(1)

	thetas := []string{"0.5", "1", "-2.75", "13.2", "-31.4159", "100", "1000.001"}
	for _, s := range thetas {
		theta := d(s)
		sin, cos := k.Sin(theta), k.Cos(theta)
		sum := p.Add(p.Mul(sin, sin), p.Mul(cos, cos))
		if !within(sum, one, tol) {
			t.Errorf("sin²+cos² at θ=%s = %s, want 1", s, sum)
		}
	}
}

func TestSinCos_Periodicity(t *testing.T) {
	p := precision.MustNew(120)
	k := New(p)
	tol := d("1e-110")
	twoPi := p.Mul(k.Pi(), decimal.NewFromInt(2))

	theta := d("0.7")
	for turns := int64(-5); turns <= 5; turns++ {
		shifted := p.Add(theta, p.Mul(twoPi, decimal.NewFromInt(turns)))
		if got, want := k.Sin(shifted), k.Sin(theta); !within(got, want, tol) {
			t.Errorf("Sin(0.7%+d·2π) = %s, want %s", turns, got, want)
		}
		if got, want := k.Cos(shifted), k.Cos(theta); !within(got, want, tol) {
			t.Errorf("Cos(0.7%+d·2π) = %s, want %s", turns, got, want)
		}
	}
}

func TestSinCos_HugeArguments(t *testing.T) {
	p := precision.MustNew(20)
	k := New(p)
	ref := New(precision.MustNew(60))
	tol := d("1e-17")
	one := decimal.NewFromInt(1)

	// at or beyond 10^digits the argument has no fractional digits left
	for _, s := range []string{"1e20", "1e25", "1e28", "1e32", "1e40", "-1e40", "123456789e60"} {
		theta := d(s)
		sin, cos := k.Sin(theta), k.Cos(theta)
		if sin.Abs().GreaterThan(one) || cos.Abs().GreaterThan(one) {
			t.Fatalf("θ=%s: sin %s, cos %s outside [-1, 1]", s, sin, cos)
		}
		if want := ref.Sin(theta); !within(sin, want, tol) {
			t.Errorf("Sin(%s) = %s, want %s", s, sin, want)
		}
		if want := ref.Cos(theta); !within(cos, want, tol) {
			t.Errorf("Cos(%s) = %s, want %s", s, cos, want)
		}
	}

	// sin(10²²) is a classic range reduction test value
	if got := k.Sin(d("1e22")); !within(got, d("-0.85220084976718880177"), tol) {
		t.Errorf("Sin(1e22) = %s", got)
	}
}

func TestMagnitude(t *testing.T) {
	tests := map[string]int{"0": 0, "0.001": 0, "7": 1, "123.45": 3, "-1e32": 33, "12e3": 5}
	for s, want := range tests {
		if got := magnitude(d(s)); got != want {
			t.Errorf("magnitude(%s) = %d, want %d", s, got, want)
		}
	}
}

func TestSin_SeriesThreshold(t *testing.T) {
	coarse := New(precision.MustNew(50), WithSeriesThreshold(d("1e-5")))
	fine := New(precision.MustNew(50))

	diff := coarse.Sin(d("1")).Sub(fine.Sin(d("1"))).Abs()
	if diff.IsZero() {
		t.Error("a coarse threshold should truncate the series earlier")
	}
	if diff.GreaterThan(d("1e-5")) {
		t.Errorf("truncation error %s exceeds the threshold", diff)
	}
}

func TestNthRoot(t *testing.T) {
	k := New(precision.MustNew(200))
	tol := d("1e-190")

	tests := []struct {
		n     int
		value string
		want  string
	}{
		{2, "4", "2"},
		{3, "27", "3"},
		{3, "-27", "-3"},
		{5, "32", "2"},
		{1, "7.5", "7.5"},
		{2, "0", "0"},
		{2, "0.0001", "0.01"},
		{2, "1000000000000000000000000000000", "1000000000000000"},
	}

	for _, tt := range tests {
		got, err := k.NthRoot(tt.n, d(tt.value))
		if err != nil {
			t.Errorf("NthRoot(%d, %s) error: %v", tt.n, tt.value, err)
			continue
		}
		if !within(got, d(tt.want), tol) {
			t.Errorf("NthRoot(%d, %s) = %s, want %s", tt.n, tt.value, got, tt.want)
		}
	}
}

func TestNthRoot_Irrational(t *testing.T) {
	p := precision.MustNew(200)
	k := New(p)

	root2, err := k.NthRoot(2, d("2"))
	if err != nil {
		t.Fatalf("NthRoot(2, 2) error: %v", err)
	}
	if sq := p.Mul(root2, root2); !within(sq, d("2"), d("1e-195")) {
		t.Errorf("√2² = %s, want 2", sq)
	}
	if !strings.HasPrefix(root2.String(), "1.41421356237309504880168872420969807856967187537694") {
		t.Errorf("√2 = %s", root2)
	}
}

func TestNthRoot_Errors(t *testing.T) {
	k := New(precision.MustNew(50))

	if _, err := k.NthRoot(2, d("-1")); !errors.Is(err, dynamo.ErrDomain) {
		t.Errorf("NthRoot(2, -1) error = %v, want ErrDomain", err)
	}
	if _, err := k.NthRoot(0, d("8")); !errors.Is(err, dynamo.ErrDomain) {
		t.Errorf("NthRoot(0, 8) error = %v, want ErrDomain", err)
	}

	bounded := New(precision.MustNew(50), WithMaxIterations(3))
	if _, err := bounded.NthRoot(2, d("1e100")); !errors.Is(err, dynamo.ErrConvergence) {
		t.Errorf("expected ErrConvergence with 3 iterations, got %v", err)
	}
}

func TestSqrt(t *testing.T) {
	p := precision.MustNew(100)
	k := New(p)
	tol := d("1e-90")

	r2 := d("1777817388563880124.6")
	got, err := k.Sqrt(r2)
	if err != nil {
		t.Fatalf("Sqrt error: %v", err)
	}
	if sq := p.Mul(got, got); !within(sq, r2, tol.Mul(r2)) {
		t.Errorf("Sqrt(%s)² = %s", r2, sq)
	}

	slow, err := k.NthRoot(2, r2)
	if err != nil {
		t.Fatalf("NthRoot error: %v", err)
	}
	if !within(got, slow, tol.Mul(got)) {
		t.Errorf("seeded root %s differs from unseeded %s", got, slow)
	}
}
