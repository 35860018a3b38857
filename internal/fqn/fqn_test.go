package fqn

import "testing"

func TestFQNStringCanonicalForm(t *testing.T) {
	f := New([]string{"mod", "sub"}, "widget").WithQualifiers(Qualifier{Key: "T", Value: "i32"})
	got := f.String()
	want := "mod.sub::widget[T=i32]"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestFQNQualifierOrderDoesNotAffectEquality(t *testing.T) {
	a := New([]string{"m"}, "f").WithQualifiers(Qualifier{Key: "B", Value: "2"}, Qualifier{Key: "A", Value: "1"})
	b := New([]string{"m"}, "f").WithQualifiers(Qualifier{Key: "A", Value: "1"}, Qualifier{Key: "B", Value: "2"})
	if !a.Equal(b) {
		t.Fatalf("expected %s to equal %s regardless of qualifier order", a, b)
	}
}

func TestFQNWithSuffixDisambiguates(t *testing.T) {
	base := New([]string{"m"}, "lambda")
	a := base.WithSuffix(1)
	b := base.WithSuffix(2)
	if a.Equal(b) {
		t.Fatalf("distinct suffixes must not compare equal: %s vs %s", a, b)
	}
	if a.String() == base.String() {
		t.Fatalf("a suffixed FQN must render differently than its unsuffixed base")
	}
}

func TestRegistryDefineAndLookup(t *testing.T) {
	r := NewRegistry()
	name := New([]string{"m"}, "f")
	r.Define(name, 42)
	v, ok := r.Lookup(name)
	if !ok || v.(int) != 42 {
		t.Fatalf("Lookup() = %v, %v; want 42, true", v, ok)
	}
}

func TestRegistryDefineDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	name := New([]string{"m"}, "f")
	r.Define(name, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected Define to panic on a duplicate FQN")
		}
	}()
	r.Define(name, 2)
}

func TestRegistryNamesAreSorted(t *testing.T) {
	r := NewRegistry()
	r.Define(New([]string{"m"}, "zeta"), 1)
	r.Define(New([]string{"m"}, "alpha"), 2)
	names := r.Names()
	if len(names) != 2 || names[0] != "m::alpha" || names[1] != "m::zeta" {
		t.Fatalf("Names() = %v, want sorted [m::alpha m::zeta]", names)
	}
}

func TestCacheKeyStableForEqualFQNs(t *testing.T) {
	a := New([]string{"m"}, "f").WithQualifiers(Qualifier{Key: "T", Value: "i32"})
	b := New([]string{"m"}, "f").WithQualifiers(Qualifier{Key: "T", Value: "i32"})
	if CacheKey(a) != CacheKey(b) {
		t.Fatalf("CacheKey should be deterministic for structurally equal FQNs")
	}
}
