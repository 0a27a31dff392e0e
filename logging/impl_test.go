package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

type BasicStruct struct {
	X int
	y string
	z string
}

type User struct {
	Name string
}

type StructWithStruct struct {
	x int
	Y User
	z string
}

// assertLogMatches will fuzzy match log lines. Notably, this checks the time format, but ignores
// the exact time. And it expects a match on the filename, but the exact line number can be wrong.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualTrimmed := strings.TrimSuffix(output, "\n")
	actualParts := strings.Split(actualTrimmed, "\t")
	expectedParts := strings.Split(expected, "\t")
	// The timestamp must parse; its zone suffix depends on the host.
	_, err = time.Parse(DefaultTimeFormatStr, actualParts[0])
	test.That(t, err, test.ShouldBeNil)
	// Log level.
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])
	// Logger name.
	test.That(t, actualParts[2], test.ShouldEqual, expectedParts[2])

	// Filename:line_number.
	actualFilename, actualLineNumber, found := strings.Cut(actualParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, found := strings.Cut(expectedParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLineNumber)
	test.That(t, err, test.ShouldBeNil)

	// Log message.
	test.That(t, actualParts[4], test.ShouldEqual, expectedParts[4])

	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))
	if len(actualParts) == 5 {
		return
	}

	// Compare structured fields as maps.
	expectedMap := make(map[string]any)
	err = json.Unmarshal([]byte(expectedParts[5]), &expectedMap)
	test.That(t, err, test.ShouldBeNil)

	actualMap := make(map[string]any)
	err = json.Unmarshal([]byte(actualParts[5]), &actualMap)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, actualMap, test.ShouldResemble, expectedMap)
}

func newBufferLogger(name string, level Level) (*impl, *bytes.Buffer) {
	notStdout := &bytes.Buffer{}
	return &impl{name, NewAtomicLevelAt(level), false, []Appender{NewWriterAppender(notStdout)}}, notStdout
}

func TestConsoleOutputFormat(t *testing.T) {
	logger, notStdout := newBufferLogger("impl", DEBUG)

	logger.Info("impl Info log")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459-0400	INFO	impl	logging/impl_test.go:67	impl Info log`)

	logger.Infof("impl %s log", "infof")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:45:20.764-0400	INFO	impl	logging/impl_test.go:131	impl infof log`)

	logger.Infow("impl logw", "key", "value")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:19:45.806-0400	INFO	impl	logging/impl_test.go:132	impl logw	{"key":"value"}`)

	logger.Infow("StructWithStruct", "key", "val", "StructWithStruct", StructWithStruct{1, User{"alice"}, "foo"})
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129-0400	INFO	impl	logging/impl_test.go:123	StructWithStruct	{"StructWithStruct":{"Y":{"Name":"alice"}},"key":"val"}`)

	logger.Warnw("BasicStruct", "implOneKey", "1val", "BasicStruct", BasicStruct{1, "alice", "foo"})
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129-0400	WARN	impl	logging/impl_test.go:125	BasicStruct	{"BasicStruct":{"X":1},"implOneKey":"1val"}`)

	logger.Errorf("drift %v", fmt.Sprint(1e-11))
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129-0400	ERROR	impl	logging/impl_test.go:127	drift 1e-11`)

	// A key without a value is still logged.
	logger.Debugw("unpaired", "lonely")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129-0400	DEBUG	impl	logging/impl_test.go:127	unpaired	{"lonely":"unpaired log key"}`)
}

func TestTimestampZones(t *testing.T) {
	instant := time.Date(2023, 11, 2, 16, 4, 5, 123000000, time.UTC)
	for _, loc := range []*time.Location{time.UTC, time.FixedZone("MST", -7*3600), time.FixedZone("IST", 5*3600+1800)} {
		line, err := formatEntry(zapcore.Entry{Time: instant.In(loc), Level: zapcore.InfoLevel, Message: "hi"}, nil)
		test.That(t, err, test.ShouldBeNil)

		stamp, _, found := strings.Cut(line, "\t")
		test.That(t, found, test.ShouldBeTrue)
		parsed, err := time.Parse(DefaultTimeFormatStr, stamp)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed.Equal(instant), test.ShouldBeTrue)
	}
	test.That(t, instant.Format(DefaultTimeFormatStr), test.ShouldEqual, "2023-11-02T16:04:05.123Z")
}

func TestLevels(t *testing.T) {
	for _, c := range []struct {
		in    string
		level Level
	}{{"debug", DEBUG}, {"INFO", INFO}, {"Warning", WARN}, {"warn", WARN}, {"error", ERROR}} {
		level, err := LevelFromString(c.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, c.level)
	}
	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)

	var level Level
	test.That(t, level.UnmarshalText([]byte("error")), test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, ERROR)
	test.That(t, level.String(), test.ShouldEqual, "Error")
	test.That(t, level.AsZap(), test.ShouldEqual, zapcore.ErrorLevel)
	test.That(t, level.UnmarshalText([]byte("nope")), test.ShouldNotBeNil)
	test.That(t, level, test.ShouldEqual, ERROR)

	logger, notStdout := newBufferLogger("levels", WARN)
	logger.Info("dropped")
	logger.Debugf("dropped %d", 2)
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)
	logger.Warn("kept")
	assertLogMatches(t, notStdout, `2023-10-30T13:20:47.129-0400	WARN	levels	logging/impl_test.go:1	kept`)

	logger.SetLevel(DEBUG)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	test.That(t, logger.Level(), test.ShouldEqual, zapcore.DebugLevel)
	logger.Debug("now kept")
	assertLogMatches(t, notStdout, `2023-10-30T13:20:47.129-0400	DEBUG	levels	logging/impl_test.go:1	now kept`)
}

func TestDebugContext(t *testing.T) {
	logger, notStdout := newBufferLogger("ctx", INFO)
	ctx := context.Background()
	logger.CDebugf(ctx, "dropped")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	ctx = EnableDebugMode(ctx, "")
	test.That(t, IsDebugMode(ctx), test.ShouldBeTrue)
	test.That(t, GetName(ctx), test.ShouldHaveLength, 6)
	logger.CDebugf(ctx, "step %d", 3)
	assertLogMatches(t, notStdout, `2023-10-30T13:20:47.129-0400	DEBUG	ctx	logging/impl_test.go:1	step 3`)
	logger.CDebugw(EnableDebugMode(context.Background(), "drift"), "with fields", "n", 3)
	assertLogMatches(t, notStdout, `2023-10-30T13:20:47.129-0400	DEBUG	ctx	logging/impl_test.go:1	with fields	{"n":3}`)
}

func TestSublogger(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	sub := logger.Sublogger("convert")
	sub.Infow("converted", "from", "quaternion")
	sub.Sublogger("matrix").Warn("close to gimbal lock")

	test.That(t, observed.Len(), test.ShouldEqual, 2)
	entries := observed.All()
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "convert")
	test.That(t, entries[0].ContextMap(), test.ShouldResemble, map[string]interface{}{"from": "quaternion"})
	test.That(t, entries[1].LoggerName, test.ShouldEqual, "convert.matrix")
	test.That(t, observed.FilterMessage("close to gimbal lock").Len(), test.ShouldEqual, 1)
}

type failingAppender struct{}

func (failingAppender) Write(zapcore.Entry, []zapcore.Field) error { return errors.New("write failed") }

func (failingAppender) Sync() error { return errors.New("sync failed") }

func TestSync(t *testing.T) {
	logger, _ := newBufferLogger("sync", INFO)
	test.That(t, logger.Sync(), test.ShouldBeNil)

	logger.AddAppender(failingAppender{})
	logger.AddAppender(failingAppender{})
	err := logger.Sync()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldEqual, "sync failed; sync failed")
}

func TestGlobal(t *testing.T) {
	original := Global()
	defer ReplaceGlobal(original)

	logger := NewBlankLogger("global")
	ReplaceGlobal(logger)
	test.That(t, Global(), test.ShouldEqual, logger)
}

func TestAsZap(t *testing.T) {
	logger, notStdout := newBufferLogger("impl", WARN)
	zl := logger.AsZap()
	zl.Info("dropped")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	zl.With("frame", "world").Warnf("zap %d", 1)
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129-0400	WARN	impl	logging/impl_test.go:1	zap 1	{"frame":"world"}`)

	logger.SetLevel(INFO)
	logger.Named("sub").Infow("through zap", "n", 2)
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129-0400	INFO	impl.sub	logging/impl_test.go:1	through zap	{"n":2}`)

	observedLogger, observed := NewObservedTestLogger(t)
	observedLogger.Desugar().Debug("seen by the observer")
	test.That(t, observed.FilterMessage("seen by the observer").Len(), test.ShouldEqual, 1)
}
