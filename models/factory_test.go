package models

import (
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestFromMetadata_Variants(t *testing.T) {
	c := &fakeClient{}

	doc, ok := FromMetadata(c, Metadata{FieldType: TypeDocument, FieldID: "d"})
	if !ok {
		t.Fatal("document skipped")
	}
	if _, isDoc := doc.(*Document); !isDoc {
		t.Errorf("expected *Document, got %T", doc)
	}

	folder, ok := FromMetadata(c, Metadata{FieldType: TypeFolder, FieldID: "f"})
	if !ok {
		t.Fatal("folder skipped")
	}
	if _, isFolder := folder.(*Folder); !isFolder {
		t.Errorf("expected *Folder, got %T", folder)
	}
}

func TestFromMetadata_UnknownTypeSkipped(t *testing.T) {
	logs := observeLogs(t)

	for _, md := range []Metadata{
		{FieldType: "TemplateType"},
		{FieldType: ""},
		{FieldType: 42},
		{},
		nil,
	} {
		e, ok := FromMetadata(&fakeClient{}, md)
		if ok || e != nil {
			t.Errorf("FromMetadata(%v) = %v, %v; want skip", md, e, ok)
		}
	}

	if got := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); got != 5 {
		t.Errorf("expected 5 error logs, got %d", got)
	}
}

func TestFromMetadata_Scenario(t *testing.T) {
	md := Metadata{
		FieldType:              TypeDocument,
		FieldID:                "abc",
		FieldName:              "Notes",
		FieldModifiedClient:    "2023-01-01T10:00:00.123456Z",
		FieldBlobURLGet:        "",
		FieldBlobURLGetExpires: "2023-01-01T10:00:00Z",
	}

	e, ok := FromMetadata(&fakeClient{}, md)
	if !ok {
		t.Fatal("document skipped")
	}
	d := e.(*Document)

	if d.Name() != "Notes" {
		t.Errorf("Name = %q", d.Name())
	}
	mtime, err := d.ModifiedAt()
	if err != nil {
		t.Fatalf("ModifiedAt: %v", err)
	}
	if want := time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC); !mtime.Equal(want) {
		t.Errorf("ModifiedAt = %v", mtime)
	}
	url, err := d.DownloadURL()
	if err != nil || url != "" {
		t.Errorf("DownloadURL = %q, %v", url, err)
	}
}

func TestParseKind(t *testing.T) {
	if ParseKind(TypeDocument) != KindDocument || ParseKind(TypeFolder) != KindFolder {
		t.Error("known tags misparsed")
	}
	if ParseKind("documenttype") != KindUnknown {
		t.Error("tags are case sensitive")
	}
}
