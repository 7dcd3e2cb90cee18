package match

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)

	tracker.Start()
	tracker.Embedded(25)
	tracker.Cached(25)
	tracker.Embedded(50)

	assert.Greater(t, tracker.Elapsed(), time.Duration(0))

	done, cached := tracker.Counts()
	assert.Equal(t, 100, done)
	assert.Equal(t, 25, cached)

	output := buf.String()
	assert.Contains(t, output, "100/100")
	assert.Contains(t, output, "100.0%")
	assert.Contains(t, output, "25 cached")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Start()
	tracker.Embedded(8)
	tracker.Embedded(8)

	done, _ := tracker.Counts()
	assert.Equal(t, 10, done)
}

func TestProgressTracker_Interval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1000, 100)

	tracker.Start()
	tracker.Embedded(50)
	assert.Empty(t, buf.String(), "below the interval nothing is printed")

	tracker.Embedded(60)
	assert.Contains(t, buf.String(), "110/1000")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 4, 10)

	tracker.Start()
	tracker.Cached(4)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "4/4")
	assert.True(t, strings.HasSuffix(output, "\n"), "finish should print newline")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Embedded(5)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}
