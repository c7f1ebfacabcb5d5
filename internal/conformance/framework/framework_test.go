package framework

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRecordsPassesAndFailures(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("passes", func(c *Context) {
			assert.True(c, true)
		})
		c.Run("fails", func(c *Context) {
			assert.Equal(c, 1, 2)
		})
		c.Run("aborts", func(c *Context) {
			require.NoError(c, errors.New("boom"))
			c.Errorf("not reached")
		})
	})

	require.Len(t, results.Tests, 3)
	require.Len(t, results.Failures, 2)
	assert.False(t, results.OK())

	assert.Equal(t, "fails", results.Failures[0].TestID.String())
	assert.Equal(t, "aborts", results.Failures[1].TestID.String())
	assert.Len(t, results.Failures[1].Errors, 1)
}

func TestDeferredCleanupRunsAfterFailNow(t *testing.T) {
	cleaned := false

	results := Run(nil, nil, func(c *Context) {
		c.Run("scenario", func(c *Context) {
			defer func() { cleaned = true }()
			c.FailNow()
		})
	})

	assert.True(t, cleaned)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, errNoFailureMessage, results.Failures[0].Errors[0])
}

func TestPanicIsReportedAsFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("panics", func(c *Context) {
			var m map[string]int
			m["x"] = 1
		})
	})

	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "scenario panicked")
}

func TestNestedIDsAndSkip(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("rest", func(c *Context) {
			c.Run("connectors", func(c *Context) {
				c.Run("create", func(c *Context) {
					assert.Equal(c, []string{"rest", "connectors", "create"}, c.ID().Path)
				})
			})
			c.Run("skipped", func(c *Context) {
				c.SkipWithReason("not supported")
			})
		})
	})

	assert.True(t, results.OK())

	var skipped []string
	for _, r := range results.Tests {
		if r.Skipped {
			skipped = append(skipped, r.TestID.String())
		}
	}
	assert.Equal(t, []string{"rest/skipped"}, skipped)
}

func TestRegexFilters(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("^rest/connectors/create"))
	require.NoError(t, filters.MustNotMatch.Set("foreign"))

	var ran []string
	Run(filters.AsFilter, nil, func(c *Context) {
		c.Run("rest", func(c *Context) {
			c.Run("connectors", func(c *Context) {
				c.Run("create", func(c *Context) { ran = append(ran, c.ID().String()) })
				c.Run("delete", func(c *Context) { ran = append(ran, c.ID().String()) })
			})
			c.Run("foreign", func(c *Context) { ran = append(ran, c.ID().String()) })
		})
		c.Run("grpc", func(c *Context) { ran = append(ran, c.ID().String()) })
	})

	assert.Equal(t, []string{"rest/connectors/create"}, ran)
	assert.Error(t, filters.MustMatch.Set("("))
}

func TestLogrusTestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)

	testLogger := &LogrusTestLogger{Log: logrus.NewEntry(log), DebugOutputOnFailure: true}

	Run(nil, testLogger, func(c *Context) {
		c.Run("noisy", func(c *Context) {
			c.Debug("request %s", "GET /v1alpha/connectors")
			c.Errorf("expected %d, got %d", 200, 404)
		})
	})

	output := buf.String()
	assert.True(t, strings.Contains(output, "expected 200, got 404"))
	assert.True(t, strings.Contains(output, "GET /v1alpha/connectors"))
	assert.True(t, strings.Contains(output, "FAILED"))
}
