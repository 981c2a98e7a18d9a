package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestRecorderKeepsOrder(t *testing.T) {
	var rec Recorder
	rec.Notify(KindError, "Thêm sân bóng mới thất bại!")
	rec.Notify(KindSuccess, "Thêm sân bóng mới thành công!")

	want := []Message{
		{Kind: KindError, Text: "Thêm sân bóng mới thất bại!"},
		{Kind: KindSuccess, Text: "Thêm sân bóng mới thành công!"},
	}
	if diff := cmp.Diff(want, rec.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	last, ok := rec.Last()
	if !ok || last.IsError() {
		t.Fatalf("expected last message to be success, got %+v", last)
	}

	rec.Reset()
	if _, ok := rec.Last(); ok {
		t.Fatalf("expected empty recorder after reset")
	}
}

func TestLoggerLevels(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := Logger{Entry: logrus.NewEntry(logger)}

	n.Notify(KindSuccess, "ok")
	n.Notify(KindError, "failed")

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != logrus.InfoLevel || entries[1].Level != logrus.WarnLevel {
		t.Fatalf("unexpected levels %v, %v", entries[0].Level, entries[1].Level)
	}
	if got := entries[1].Data["notification"]; got != "error" {
		t.Fatalf("expected notification field, got %v", got)
	}
}

func TestConsoleAndMulti(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	var rec Recorder

	Multi{Console{Out: &buf}, nil, &rec}.Notify(KindError, "  Cập nhật cài đặt thất bại!  ")

	if got := buf.String(); !strings.Contains(got, "✗ Cập nhật cài đặt thất bại!\n") {
		t.Fatalf("unexpected console output %q", got)
	}
	if len(rec.Messages()) != 1 {
		t.Fatalf("expected recorder to receive the message")
	}
	Discard.Notify(KindSuccess, "ignored")
}
