package student

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/meshwar/roster/core"
)

// StorageKey is the key-value entry holding the JSON-serialized roster.
const StorageKey = "students"

// Service owns the canonical in-memory roster, exclusively. Every mutation is
// followed by a best-effort persistence write: failures are logged and the
// in-memory effect stands (durable state may go stale, never the reverse).
type Service struct {
	mu      sync.RWMutex
	records []Student

	store  core.KeyValueStore
	logger core.Logger
}

// NewService restores the roster from the store, falling back to parsing
// seedCSV when nothing usable is persisted yet.
func NewService(store core.KeyValueStore, logger core.Logger, seedCSV string) *Service {
	svc := &Service{store: store, logger: logger}
	svc.records = svc.restore(seedCSV)
	return svc
}

func (svc *Service) restore(seedCSV string) []Student {
	if raw, err := svc.store.Get(StorageKey); err == nil {
		var records []Student
		jErr := json.Unmarshal([]byte(raw), &records)
		if jErr == nil {
			return records
		}
		svc.logger.Warn("decoding stored roster; falling back to seed", jErr)
	} else if err != core.ErrKeyNotFound {
		svc.logger.Warn("reading stored roster; falling back to seed", err)
	}

	records, err := ParseCSV(seedCSV)
	if err != nil {
		svc.logger.Warn("parsing seed roster", err)
	}
	return records
}

// persist writes the whole collection through to the store.
// Callers must hold at least a read lock.
func (svc *Service) persist() {
	data, err := json.Marshal(svc.records)
	if err != nil {
		svc.logger.Error("serializing roster", err)
		return
	}
	if err := svc.store.Set(StorageKey, string(data)); err != nil {
		svc.logger.Error("persisting roster", err)
	}
}

// All returns a snapshot copy of the roster in canonical order
// (most recently created first, import order otherwise).
func (svc *Service) All() []Student {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	records := make([]Student, len(svc.records))
	for i, s := range svc.records {
		records[i] = s.clone()
	}
	return records
}

// Count returns the current roster size.
func (svc *Service) Count() int {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return len(svc.records)
}

// ReplaceAll discards the current collection and installs records wholesale.
// Used by import; no validation beyond what ParseCSV already applied.
func (svc *Service) ReplaceAll(records []Student) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.records = records
	svc.persist()
}

// Add constructs a record with a fresh id, an empty attendance map and a
// normalized grade, and prepends it to the roster.
func (svc *Service) Add(data NewStudent) Student {
	s := Student{
		ID:              uuid.New().String(),
		Timestamp:       data.Timestamp,
		FullName:        data.FullName,
		StudentID:       data.StudentID,
		Gender:          data.Gender,
		Grade:           NormalizeGrade(data.Grade),
		Mobile:          data.Mobile,
		HasSiblings:     data.HasSiblings,
		NearestLandmark: data.NearestLandmark,
		Attendance:      map[string]string{},
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.records = append([]Student{s}, svc.records...)
	svc.persist()
	return s.clone()
}

// Update overwrites all fields of the record matching id except the id itself
// and the attendance map; the grade is re-normalized. Unknown ids are a silent
// no-op: the UI only hands out ids it was given.
func (svc *Service) Update(id string, data UpdateStudent) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for i, s := range svc.records {
		if s.ID == id {
			svc.records[i] = Student{
				ID:              s.ID,
				Timestamp:       data.Timestamp,
				FullName:        data.FullName,
				StudentID:       data.StudentID,
				Gender:          data.Gender,
				Grade:           NormalizeGrade(data.Grade),
				Mobile:          data.Mobile,
				HasSiblings:     data.HasSiblings,
				NearestLandmark: data.NearestLandmark,
				Attendance:      s.Attendance,
			}
			svc.persist()
			return
		}
	}
}

// Remove deletes the record matching id; silent no-op when not found.
func (svc *Service) Remove(id string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for i, s := range svc.records {
		if s.ID == id {
			svc.records = append(svc.records[:i], svc.records[i+1:]...)
			svc.persist()
			return
		}
	}
}

// MarkAttendance upserts attendance[date] = status on the record matching id.
// Marking twice for the same date overwrites; unknown ids are a silent no-op.
func (svc *Service) MarkAttendance(id, date, status string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for i, s := range svc.records {
		if s.ID == id {
			if s.Attendance == nil {
				svc.records[i].Attendance = map[string]string{}
			}
			svc.records[i].Attendance[date] = status
			svc.persist()
			return
		}
	}
}
