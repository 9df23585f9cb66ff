package ledger

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cleared-dev/txanalyser/internal/ledger/mocks"
)

// trackingCloser records whether Close was called.
type trackingCloser struct {
	io.Reader
	closed bool
}

func (c *trackingCloser) Close() error {
	c.closed = true
	return nil
}

func TestLoad_ClosesOnSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)

	rc := &trackingCloser{Reader: strings.NewReader(Header + "\nT1,A,B,20/10/2018 10:00:00,100,PAYMENT\n")}
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Open().Return(rc, nil)
	src.EXPECT().Name().Return("mock").AnyTimes()

	rec := mocks.NewMockRecorder(ctrl)
	rec.EXPECT().ObserveLoad(gomock.Len(1), gomock.Any())

	txns, err := NewLoader(zerolog.Nop(), rec).Load(src)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
	assert.True(t, rc.closed)
}

func TestLoad_ClosesOnFormatError(t *testing.T) {
	ctrl := gomock.NewController(t)

	rc := &trackingCloser{Reader: strings.NewReader(Header + "\nT1,A,B,20/10/2018 10:00:00,100\n")}
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Open().Return(rc, nil)
	src.EXPECT().Name().Return("mock").AnyTimes()

	rec := mocks.NewMockRecorder(ctrl)
	rec.EXPECT().ObserveLoadError(gomock.Any())

	txns, err := NewLoader(zerolog.Nop(), rec).Load(src)
	require.Error(t, err)
	assert.Nil(t, txns)
	assert.True(t, rc.closed, "source must be released when decoding fails")

	var ferr *FormatError
	assert.ErrorAs(t, err, &ferr)
	assert.False(t, errors.Is(err, ErrSource))
}

func TestLoad_OpenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Open().Return(nil, os.ErrPermission)
	src.EXPECT().Name().Return("locked.csv").AnyTimes()

	rec := mocks.NewMockRecorder(ctrl)
	rec.EXPECT().ObserveLoadError(gomock.Any())

	_, err := NewLoader(zerolog.Nop(), rec).Load(src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSource)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "locked.csv")
}

func TestLoad_NilRecorder(t *testing.T) {
	ctrl := gomock.NewController(t)

	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Open().Return(io.NopCloser(strings.NewReader(Header+"\n")), nil)
	src.EXPECT().Name().Return("mock").AnyTimes()

	txns, err := Load(src)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	content := Header + "\nT1,A,B,20/10/2018 10:00:00,100,PAYMENT\nT2,A,B,20/10/2018 11:00:00,100,REVERSAL,T1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	txns, err := Load(FileSource{Path: path})
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "T1", txns[1].RelatedID)
}

func TestFileSource_NotFound(t *testing.T) {
	_, err := Load(FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSource)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
