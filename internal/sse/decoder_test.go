package sse

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n\n"
}

func collect(t *testing.T, r io.Reader) ([]string, error) {
	t.Helper()
	var out []string
	for delta, err := range Deltas(r) {
		if err != nil {
			return out, err
		}
		out = append(out, delta)
	}
	return out, nil
}

func TestDecoder_SplitAcrossChunks(t *testing.T) {
	d := NewDecoder()
	full := event("Hello") + event(", world")

	var got []string
	// Feed in awkward pieces, including mid-line and mid-JSON splits
	for _, piece := range []string{full[:7], full[7:30], full[30:31], full[31:]} {
		got = append(got, d.Feed([]byte(piece))...)
	}
	assert.Equal(t, []string{"Hello", ", world"}, got)
	assert.False(t, d.Done())
}

func TestDecoder_DoneStopsEarly(t *testing.T) {
	d := NewDecoder()
	got := d.Feed([]byte(event("a") + "data: [DONE]\n\n" + event("ignored")))
	assert.Equal(t, []string{"a"}, got)
	assert.True(t, d.Done())
	assert.Empty(t, d.Feed([]byte(event("later"))))
	assert.Empty(t, d.Flush())
}

func TestDecoder_IgnoresNonDataAndMalformed(t *testing.T) {
	input := ": keep-alive\n" +
		"event: message\n" +
		"data: {not json}\n" +
		`data: {"choices":[]}` + "\n" +
		`data: {"choices":[{"delta":{"role":"assistant"}}]}` + "\n" +
		event("ok")

	got := NewDecoder().Feed([]byte(input))
	assert.Equal(t, []string{"ok"}, got)
}

func TestDecoder_CRLFAndNoSpace(t *testing.T) {
	input := `data:{"choices":[{"delta":{"content":"x"}}]}` + "\r\n\r\n"
	assert.Equal(t, []string{"x"}, NewDecoder().Feed([]byte(input)))
}

func TestDecoder_FlushUnterminatedLine(t *testing.T) {
	d := NewDecoder()
	assert.Empty(t, d.Feed([]byte(`data: {"choices":[{"delta":{"content":"tail"}}]}`)))
	assert.Equal(t, []string{"tail"}, d.Flush())
	assert.Empty(t, d.Flush())
}

func TestDeltas_OneByteReader(t *testing.T) {
	input := event("The ") + event("ISA ") + event("wins.") + "data: [DONE]\n\n"
	got, err := collect(t, iotest.OneByteReader(strings.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, "The ISA wins.", strings.Join(got, ""))
}

func TestDeltas_StopsAtSentinelWithoutDrainingReader(t *testing.T) {
	// A reader that would fail if read past the sentinel
	r := io.MultiReader(
		strings.NewReader(event("done soon")+"data: [DONE]\n\n"),
		iotest.ErrReader(errors.New("must not be read")),
	)
	got, err := collect(t, r)
	require.NoError(t, err)
	assert.Equal(t, []string{"done soon"}, got)
}

func TestDeltas_ReaderError(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader(event("partial")), iotest.ErrReader(boom))
	got, err := collect(t, r)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"partial"}, got)
}

func TestDeltas_EOFWithoutSentinel(t *testing.T) {
	got, err := collect(t, strings.NewReader(event("a")+event("b")))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestDeltas_BreakStopsIteration(t *testing.T) {
	seq := Deltas(strings.NewReader(event("1") + event("2") + event("3")))
	var got []string
	for delta, err := range seq {
		require.NoError(t, err)
		got = append(got, delta)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"1", "2"}, got)
}

func TestDeltas_RestartablePerRange(t *testing.T) {
	input := event("again")
	var r strings.Reader
	r.Reset(input)
	seq := Deltas(&r)

	first, err := collect(t, &r)
	require.NoError(t, err)

	r.Reset(input)
	var second []string
	for delta, err := range seq {
		require.NoError(t, err)
		second = append(second, delta)
	}
	assert.Equal(t, []string{"again"}, first)
	assert.Equal(t, first, second)
}

func TestWriter_Events(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewWriter(rec)
	require.NoError(t, w.Data(map[string]string{"text": "hi"}))
	require.NoError(t, w.Done())

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "data: {\"text\":\"hi\"}\n\ndata: [DONE]\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}
