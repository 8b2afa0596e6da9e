package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

func newJournal(t *testing.T) (*Journal, string) {
	path := filepath.Join(t.TempDir(), "sub", "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j, path
}

func TestPutList(t *testing.T) {
	j, path := newJournal(t)

	recs, err := j.List(0)
	require.NoError(t, err)
	require.Empty(t, recs)

	now := time.UnixMilli(time.Now().UnixMilli())
	for i := range 3 {
		require.NoError(t, j.Put(Record{
			Program: "Coconut",
			Method:  "issueCocoTokens",
			Hash:    util.Uint256{byte(i + 1)},
			State:   vmstate.Halt,
			Time:    now.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, j.Put(Record{
		Program:   "Coconut",
		Method:    "swapTokens",
		Hash:      util.Uint256{4},
		State:     vmstate.Fault,
		Exception: "slippage tolerance exceeded",
		Time:      now,
	}))

	recs, err = j.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	for i := range 3 {
		require.Equal(t, util.Uint256{byte(i + 1)}, recs[i].Hash)
	}
	require.Equal(t, "swapTokens", recs[3].Method)
	require.Equal(t, vmstate.Fault, recs[3].State)
	require.Equal(t, "slippage tolerance exceeded", recs[3].Exception)
	require.True(t, now.Equal(recs[3].Time))

	recs, err = j.List(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, util.Uint256{3}, recs[0].Hash)
	require.Equal(t, util.Uint256{4}, recs[1].Hash)

	require.NoError(t, j.Close())
	_, err = j.List(0)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, j.Put(Record{}), ErrClosed)
	require.NoError(t, j.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()
	recs, err = j2.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 4)
}
