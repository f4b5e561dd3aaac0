package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"0.0.0",
		"1.2.3",
		"4.2.0",
		"10.20.30",
		"1.0.0-alpha",
		"1.0.0-rc.1",
		"2.0.0-beta.2+build.5",
		"1.0.0+20240101",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			v, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, in, v.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty":          "",
		"v prefix":       "v1.2.3",
		"two components": "1.2",
		"words":          "Unreleased",
		"trailing dot":   "1.2.3.",
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(in)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, in, parseErr.Input)
			assert.Contains(t, err.Error(), in)
		})
	}
}

func TestBumps(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		kind  BumpKind
		want  string
	}{
		"major resets minor and patch": {input: "1.4.7", kind: Major, want: "2.0.0"},
		"minor resets patch":           {input: "1.4.7", kind: Minor, want: "1.5.0"},
		"patch increments patch":       {input: "1.4.7", kind: Patch, want: "1.4.8"},
		"prerelease dropped on patch":  {input: "1.4.7-rc.1", kind: Patch, want: "1.4.8"},
		"from zero":                    {input: "0.0.0", kind: Minor, want: "0.1.0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v := MustParse(tt.input)
			bumped := v.Bump(tt.kind)
			assert.Equal(t, tt.want, bumped.String())
			assert.Equal(t, tt.input, v.String(), "receiver must not change")
		})
	}
}

func TestBumpMajor_ZeroesMinorAndPatch(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"0.1.2", "3.9.9", "7.0.1", "1.2.3-beta"} {
		b := MustParse(in).BumpMajor()
		assert.Zero(t, b.Minor(), in)
		assert.Zero(t, b.Patch(), in)
	}

	v := MustParse("1.2.3")
	assert.NotEqual(t, v.BumpMajor().String(), v.BumpMajor().BumpMajor().String())
}

func TestSortAndMax(t *testing.T) {
	t.Parallel()

	in := []Info{MustParse("4.2.0"), MustParse("4.1.0"), MustParse("4.0.0"), MustParse("4.10.0")}
	sorted := Sort(in)

	assert.Equal(t, []string{"4.0.0", "4.1.0", "4.2.0", "4.10.0"}, Strings(sorted))
	assert.Equal(t, []string{"4.2.0", "4.1.0", "4.0.0", "4.10.0"}, Strings(in), "input must be untouched")

	latest, err := Max(in)
	require.NoError(t, err)
	assert.Equal(t, "4.10.0", latest.String())
}

func TestMax_Empty(t *testing.T) {
	t.Parallel()

	_, err := Max(nil)
	assert.ErrorIs(t, err, ErrNoVersions)
}

func TestCompare_Prerelease(t *testing.T) {
	t.Parallel()

	assert.True(t, MustParse("1.0.0-rc.1").LessThan(MustParse("1.0.0")))
	assert.True(t, MustParse("1.0.0").Equal(MustParse("1.0.0+meta")))
	assert.Equal(t, 1, MustParse("2.0.0").Compare(MustParse("1.9.9")))
}

func TestParseBumpKind(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"major", "MINOR", " patch "} {
		_, err := ParseBumpKind(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseBumpKind("huge")
	assert.Error(t, err)
}

func TestUnmarshalText(t *testing.T) {
	t.Parallel()

	var v Info
	require.NoError(t, v.UnmarshalText([]byte("3.1.4")))
	assert.Equal(t, "3.1.4", v.String())
	assert.Error(t, v.UnmarshalText([]byte("nope")))
}

func TestZeroInfo(t *testing.T) {
	t.Parallel()

	var zero Info
	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.String())
	assert.Zero(t, zero.Major())
	assert.Zero(t, zero.Minor())
	assert.Zero(t, zero.Patch())
	assert.Empty(t, zero.Prerelease())
	assert.Empty(t, zero.Metadata())

	v := MustParse("0.0.1")
	assert.Equal(t, -1, zero.Compare(v))
	assert.Equal(t, 1, v.Compare(zero))
	assert.True(t, zero.Equal(Info{}))
	assert.Equal(t, "0.1.0", zero.BumpMinor().String())
}
