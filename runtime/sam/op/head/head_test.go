package head_test

import (
	"strings"
	"testing"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/runtime/sam/op/head"
	"github.com/brimdata/spl/zbuf"
	"github.com/brimdata/spl/zbuf/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func batch(t *testing.T, ss ...string) *zbuf.Array {
	t.Helper()
	var recs []*spl.Record
	for _, s := range ss {
		rec, err := spl.ParseRecordJSON([]byte(s))
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	return zbuf.NewArray(recs)
}

func drain(t *testing.T, p zbuf.Puller) string {
	t.Helper()
	var out []string
	for {
		b, err := p.Pull(false)
		require.NoError(t, err)
		if b == nil {
			return strings.Join(out, " ")
		}
		for _, rec := range b.Records() {
			out = append(out, rec.String())
		}
	}
}

func TestHeadReleasesParent(t *testing.T) {
	ctrl := gomock.NewController(t)
	parent := mock.NewMockPuller(ctrl)
	gomock.InOrder(
		parent.EXPECT().Pull(false).Return(batch(t, `{"a":1}`, `{"a":2}`), nil),
		parent.EXPECT().Pull(false).Return(batch(t, `{"a":3}`, `{"a":4}`), nil),
		parent.EXPECT().Pull(true).Return(nil, nil),
	)
	assert.Equal(t, `{"a":1} {"a":2} {"a":3}`, drain(t, head.New(parent, 3)))
}

func TestHeadZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	parent := mock.NewMockPuller(ctrl)
	parent.EXPECT().Pull(true).Return(nil, nil)
	assert.Equal(t, "", drain(t, head.New(parent, 0)))
}

func TestHeadShortInput(t *testing.T) {
	assert.Equal(t, `{"a":1}`, drain(t, head.New(batch(t, `{"a":1}`), 10)))
}

func TestHeadDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	parent := mock.NewMockPuller(ctrl)
	parent.EXPECT().Pull(true).Return(nil, nil)
	b, err := head.New(parent, 5).Pull(true)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestHeadWhile(t *testing.T) {
	value := expr.NewDottedExpr(field.Dotted("value"))
	input := []string{`{"value":1}`, `{"value":"x"}`, `{"value":0}`, `{"value":2}`}
	tests := []struct {
		null, keepLast bool
		input          []string
		expected       string
	}{
		{false, false, input, `{"value":1} {"value":"x"}`},
		{false, true, input, `{"value":1} {"value":"x"} {"value":0}`},
		{false, false, []string{`{"value":0}`, `{"value":1}`}, ``},
		{false, false, []string{`{"value":1}`, `{}`, `{"value":1}`}, `{"value":1}`},
		{true, false, []string{`{"value":1}`, `{}`, `{"value":null}`, `{"value":false}`}, `{"value":1} {} {"value":null}`},
		{false, false, []string{`{"value":1}`, `{"value":2}`}, `{"value":1} {"value":2}`},
	}
	for _, tc := range tests {
		w := head.NewWhile(batch(t, tc.input...), value, tc.null, tc.keepLast)
		assert.Equal(t, tc.expected, drain(t, w), "null=%t keeplast=%t %v", tc.null, tc.keepLast, tc.input)
	}
}

func TestHeadWhileReleasesParent(t *testing.T) {
	ctrl := gomock.NewController(t)
	parent := mock.NewMockPuller(ctrl)
	gomock.InOrder(
		parent.EXPECT().Pull(false).Return(batch(t, `{"v":true}`), nil),
		parent.EXPECT().Pull(false).Return(batch(t, `{"v":false}`, `{"v":true}`), nil),
		parent.EXPECT().Pull(true).Return(nil, nil),
	)
	w := head.NewWhile(parent, expr.NewDottedExpr(field.Dotted("v")), false, false)
	assert.Equal(t, `{"v":true}`, drain(t, w))
}
