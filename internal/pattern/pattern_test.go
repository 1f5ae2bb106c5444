package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameIsIrrefutable(t *testing.T) {
	p := Pattern{Kind: KName, Name: "x"}
	assert.False(t, p.IsRefutable())
}

func TestNumberAndBytesAndListAreRefutable(t *testing.T) {
	assert.True(t, Pattern{Kind: KNumber, Num: 1}.IsRefutable())
	assert.True(t, Pattern{Kind: KBytes, Bytes: []byte("x")}.IsRefutable())
	assert.True(t, Pattern{Kind: KList}.IsRefutable())
}

func TestPairOfNamesIsIrrefutable(t *testing.T) {
	x := Pattern{Kind: KName, Name: "x"}
	y := Pattern{Kind: KName, Name: "y"}
	p := Pattern{Kind: KPair, Fst: &x, Snd: &y}
	assert.False(t, p.IsRefutable())
}

func TestPairWithRefutableSideIsRefutable(t *testing.T) {
	x := Pattern{Kind: KName, Name: "x"}
	n := Pattern{Kind: KNumber, Num: 0}
	p := Pattern{Kind: KPair, Fst: &x, Snd: &n}
	assert.True(t, p.IsRefutable())
}

func TestNamesCollectsListItemsAndRest(t *testing.T) {
	a := Pattern{Kind: KName, Name: "a"}
	b := Pattern{Kind: KName, Name: "b"}
	p := Pattern{
		Kind:  KList,
		Items: []Pattern{a, b},
		Rest:  &RestName{Name: "rest"},
	}
	names := p.Names()
	var got []string
	for _, n := range names {
		got = append(got, n.Name)
	}
	assert.Equal(t, []string{"a", "b", "rest"}, got)
}

func TestNamesOnBareNumberIsEmpty(t *testing.T) {
	p := Pattern{Kind: KNumber, Num: 3}
	assert.Empty(t, p.Names())
}
