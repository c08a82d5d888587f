package recorder_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-ofdeque/internal/errs"
	"github.com/joeycumines/go-ofdeque/internal/recorder"
)

func TestAppendCSV_WritesHeaderOnFirstRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	row := recorder.Row{
		Global: map[string]string{"rideable": "ofdeque"},
		Fields: []recorder.Field{
			{Name: "ops", Reducer: recorder.SumInts, Values: []int64{10, 20, 30}},
		},
	}
	require.NoError(t, recorder.AppendCSV(path, row))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rideable")
	assert.Contains(t, string(data), "ops")
	assert.Contains(t, string(data), "60") // sum of 10+20+30
}

func TestAppendCSV_MismatchedHeaderErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	first := recorder.Row{
		Global: map[string]string{"rideable": "ofdeque"},
		Fields: []recorder.Field{{Name: "ops", Reducer: recorder.SumInts, Values: []int64{1}}},
	}
	require.NoError(t, recorder.AppendCSV(path, first))

	second := recorder.Row{
		Global: map[string]string{"rideable": "ofdeque"},
		Fields: []recorder.Field{{Name: "latency", Reducer: recorder.StdDevInts, Values: []int64{1, 2, 3}}},
	}
	err := recorder.AppendCSV(path, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errs.HeaderMismatchError{})
}

func TestField_ConcatReducer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	row := recorder.Row{
		Global: map[string]string{},
		Fields: []recorder.Field{
			{Name: "ids", Reducer: recorder.Concat, Values: []int64{1, 2, 3}},
		},
	}
	require.NoError(t, recorder.AppendCSV(path, row))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1;2;3")
}
