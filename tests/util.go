package testutil

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/meshwar/roster/core"
	"github.com/meshwar/roster/core/student"
	inmemkv "github.com/meshwar/roster/storage/kv/inmem"
)

// NopLogger discards everything; keeps service construction quiet in tests.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}

// NewStudentService returns a service backed by a fresh in-memory store,
// pre-populated with the given records (no seed fallback).
func NewStudentService(t *testing.T, records ...student.Student) (*student.Service, core.KeyValueStore) {
	t.Helper()
	store := inmemkv.NewStore()
	svc := student.NewService(store, NopLogger{}, "")
	if len(records) > 0 {
		svc.ReplaceAll(records)
	}
	return svc, store
}

// CreateStudent adds a record through the service, failing the test on
// validation errors.
func CreateStudent(t *testing.T, svc *student.Service, fullName, grade, gender, mobile, hasSiblings string) student.Student {
	t.Helper()
	data := student.NewStudent{
		FullName:        fullName,
		Grade:           grade,
		Gender:          gender,
		Mobile:          mobile,
		HasSiblings:     hasSiblings,
		NearestLandmark: "",
	}
	if err := data.Validate(); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return svc.Add(data)
}

// JSONBytesEqual compares the JSON in two byte slices regardless of key order.
func JSONBytesEqual(t *testing.T, a, b []byte) bool {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(a, &j1); err != nil {
		t.Fatalf("JSONBytesEqual() failed: %v", err)
	}
	if err := json.Unmarshal(b, &j2); err != nil {
		t.Fatalf("JSONBytesEqual() failed: %v", err)
	}
	return reflect.DeepEqual(j1, j2)
}
