package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

var errNoFailureMessage = errors.New("scenario aborted without reporting an error")

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context tracks one conformance scenario.  Scenarios pass it straight to testify's assert and
// require packages.  A require failure unwinds only the scenario it belongs to, and the scenario's
// deferred connector cleanup still runs.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run starts the unnamed root scenario.  Only the named scenarios nested under it are recorded.
func Run(filter Filter, testLogger TestLogger, action func(*Context)) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	root := &Context{env: env}
	root.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		c.finish(recover())
	}()

	action(c)
}

// finish records the scenario result.  aborted is the recovered panic value, if any: a Context
// from FailNow or Skip, anything else from a crash.
func (c *Context) finish(aborted interface{}) {
	if aborted != nil {
		if c.skipped {
			c.env.results.Tests = append(c.env.results.Tests, TestResult{TestID: c.id, Skipped: true, SkipReason: c.skipReason})
			return
		}
		c.failed = true
		if _, ok := aborted.(*Context); !ok {
			c.addError(fmt.Errorf("scenario panicked: %+v\n%s", aborted, string(debug.Stack())))
		} else if len(c.errors) == 0 {
			c.addError(errNoFailureMessage)
		}
	}

	if len(c.id.Path) == 0 {
		return
	}
	result := TestResult{TestID: c.id, Errors: c.errors}
	c.env.results.Tests = append(c.env.results.Tests, result)
	if c.failed {
		c.env.results.Failures = append(c.env.results.Failures, result)
	}
}

func (c *Context) addError(err error) {
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

func (c *Context) ID() TestID {
	return c.id
}

func (c *Context) Failed() bool {
	return c.failed
}

// Run executes a nested scenario unless the filter excludes its id
func (c *Context) Run(name string, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}

	c.env.testLogger.TestStarted(id)
	child := &Context{id: id, env: c.env}
	child.run(action)

	if child.skipped {
		c.env.testLogger.TestSkipped(id, child.skipReason)
		return
	}
	c.env.testLogger.TestFinished(id, child.failed, child.debugLogger.Output())
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug buffers a line that is only written out when the scenario fails
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// testify prefixes its messages with a tab and a newline per field; collapse the leading whitespace
func reformatError(err error) error {
	lines := strings.Split(err.Error(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, "\t ")
	}
	return errors.New(strings.TrimSpace(strings.Join(lines, "\n")))
}
