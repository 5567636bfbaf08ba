package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	echoapi "github.com/meshwar/roster/apps/api/echo"
	"github.com/meshwar/roster/core/student"
	testutil "github.com/meshwar/roster/tests"
)

func rosterPath(endpoint string, params map[string]string) string {
	v := make(url.Values)
	for key, val := range params {
		v.Add(key, val)
	}
	path := "/v1/students" + endpoint
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	return path
}

func Test_studentApi_query(t *testing.T) {
	resetRoster()
	s1 := testutil.CreateStudent(t, svc, "أحمد خالد يوسف سالم", "الاول", student.GenderMale, "0599111222", "لا")
	s2 := testutil.CreateStudent(t, svc, "سارة محمد علي حسن", "الثاني", student.GenderFemale, "0599333444", "نعم")

	token := viewerToken(t)
	result := func(total, pages int, records ...student.Student) []byte {
		if records == nil {
			records = []student.Student{}
		}
		return marchallObj(t, student.Result{Students: records, Total: total, Page: 1, TotalPages: pages})
	}

	tests := []httpTest{
		{name: "auth required", path: rosterPath("", nil), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "get all, newest first", path: rosterPath("", nil), token: token, wantData: result(2, 1, s2, s1)},
		{name: "grade filter", path: rosterPath("", map[string]string{"grade": "الاول"}), token: token, wantData: result(1, 1, s1)},
		{name: "all-grades tab", path: rosterPath("", map[string]string{"grade": student.GradeAll}), token: token, wantData: result(2, 1, s2, s1)},
		{name: "search", path: rosterPath("", map[string]string{"search": "سارة"}), token: token, wantData: result(1, 1, s2)},
		{name: "search miss", path: rosterPath("", map[string]string{"search": "قلقيلية"}), token: token, wantData: result(0, 0)},
		{name: "admin can view too", path: rosterPath("", nil), token: adminToken(t), wantData: result(2, 1, s2, s1)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_queryGrades(t *testing.T) {
	tt := httpTest{
		name: "grade tabs", path: rosterPath("/grades", nil), token: viewerToken(t),
		wantCode: http.StatusOK, wantData: marchallObj(t, student.Grades),
	}
	t.Run(tt.name, func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_studentApi_create(t *testing.T) {
	resetRoster()
	admin := adminToken(t)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", token: viewerToken(t), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
			body:     marchallObj(t, student.NewStudent{FullName: "أحمد خالد يوسف سالم"}),
		},
		{
			name: "full name required", token: admin, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, student.NewStudent{Grade: "الاول"}),
			wantData: marchallObj(t, map[string]string{"fullName": "this field is required"}),
		},
		{
			name: "created with normalized grade", token: admin, wantCode: http.StatusCreated,
			body:  marchallObj(t, student.NewStudent{FullName: "أحمد خالد يوسف سالم", Grade: "السابغ", Mobile: "0599111222"}),
			extra: "السابع",
		},
		{
			name: "unknown grade lands unclassified", token: admin, wantCode: http.StatusCreated,
			body:  marchallObj(t, student.NewStudent{FullName: "سارة محمد علي حسن", Grade: "روضة"}),
			extra: student.GradeUnclassified,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, rosterPath("", nil), tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if wantGrade, ok := tt.extra.(string); ok && rec.Code == http.StatusCreated {
				var s student.Student
				if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
					t.Fatalf("decoding created student: %v", err)
				}
				if s.ID == "" {
					t.Error("expected a generated id")
				}
				if s.Grade != wantGrade {
					t.Errorf("grade = %q; want %q", s.Grade, wantGrade)
				}
				if s.Attendance == nil || len(s.Attendance) != 0 {
					t.Errorf("attendance = %v; want empty map", s.Attendance)
				}
			}
		})
	}

	if svc.Count() != 2 {
		t.Errorf("Count() = %d; want 2", svc.Count())
	}
}

func Test_studentApi_update(t *testing.T) {
	resetRoster()
	s := testutil.CreateStudent(t, svc, "أحمد خالد يوسف سالم", "الاول", student.GenderMale, "0599111222", "لا")
	svc.MarkAttendance(s.ID, "2024-01-15", student.StatusPresent)
	admin := adminToken(t)

	body := marchallObj(t, student.UpdateStudent{FullName: "أحمد خالد يوسف النجار", Grade: "السابغ"})

	tests := []httpTest{
		{name: "auth required", path: "/v1/students/" + s.ID, body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/v1/students/" + s.ID, token: viewerToken(t), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "full name required", path: "/v1/students/" + s.ID, token: admin,
			body:     marchallObj(t, student.UpdateStudent{Grade: "الاول"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"fullName": "this field is required"}),
		},
		{name: "updated", path: "/v1/students/" + s.ID, token: admin, body: body, wantCode: http.StatusNoContent},
		{name: "unknown id is a no-op", path: "/v1/students/nope", token: admin, body: body, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	got := svc.All()[0]
	if got.FullName != "أحمد خالد يوسف النجار" {
		t.Errorf("FullName = %q; update not applied", got.FullName)
	}
	if got.Grade != "السابع" {
		t.Errorf("Grade = %q; want السابع", got.Grade)
	}
	if got.Attendance["2024-01-15"] != student.StatusPresent {
		t.Error("attendance map must survive an update")
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d; want 1", svc.Count())
	}
}

func Test_studentApi_destroy(t *testing.T) {
	resetRoster()
	s1 := testutil.CreateStudent(t, svc, "أحمد خالد يوسف سالم", "الاول", student.GenderMale, "0599111222", "لا")
	s2 := testutil.CreateStudent(t, svc, "سارة محمد علي حسن", "الثاني", student.GenderFemale, "0599333444", "نعم")
	admin := adminToken(t)

	tests := []httpTest{
		{name: "auth required", path: "/v1/students/" + s1.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/v1/students/" + s1.ID, token: viewerToken(t),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "deleted", path: "/v1/students/" + s1.ID, token: admin, wantCode: http.StatusNoContent},
		{name: "unknown id is a no-op", path: "/v1/students/nope", token: admin, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	records := svc.All()
	if len(records) != 1 || records[0].ID != s2.ID {
		t.Errorf("roster = %+v; want only %q left", records, s2.ID)
	}
}

func Test_studentApi_markAttendance(t *testing.T) {
	resetRoster()
	s := testutil.CreateStudent(t, svc, "أحمد خالد يوسف سالم", "الاول", student.GenderMale, "0599111222", "لا")
	admin := adminToken(t)
	path := "/v1/students/" + s.ID + "/attendance"

	mark := func(date, status string) []byte {
		return marchallObj(t, student.MarkAttendance{Date: date, Status: status})
	}

	tests := []httpTest{
		{name: "auth required", path: path, body: mark("2024-01-15", student.StatusPresent), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: path, token: viewerToken(t), body: mark("2024-01-15", student.StatusPresent),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "unknown status", path: path, token: admin, body: mark("2024-01-15", "متأخر"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"status": "invalid attendance status"}),
		},
		{name: "malformed date", path: path, token: admin, body: mark("15/01/2024", student.StatusPresent), wantCode: http.StatusBadRequest},
		{name: "marked absent", path: path, token: admin, body: mark("2024-01-15", student.StatusAbsent), wantCode: http.StatusNoContent},
		{name: "remark overwrites", path: path, token: admin, body: mark("2024-01-15", student.StatusPresent), wantCode: http.StatusNoContent},
		{name: "second date", path: path, token: admin, body: mark("2024-01-16", student.StatusAbsent), wantCode: http.StatusNoContent},
		{name: "unknown id is a no-op", path: "/v1/students/nope/attendance", token: admin, body: mark("2024-01-15", student.StatusPresent), wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	att := svc.All()[0].Attendance
	if att["2024-01-15"] != student.StatusPresent || att["2024-01-16"] != student.StatusAbsent {
		t.Errorf("Attendance = %v", att)
	}
}

func Test_studentApi_stats(t *testing.T) {
	resetRoster()
	s1 := testutil.CreateStudent(t, svc, "أحمد خالد يوسف سالم", "الاول", student.GenderMale, "0599111222", student.SiblingsYes)
	testutil.CreateStudent(t, svc, "سارة محمد علي حسن", "الثاني", student.GenderFemale, "0599333444", "لا")
	svc.MarkAttendance(s1.ID, "2024-01-15", student.StatusPresent)

	want := echoapi.StatsResponse{
		Date:  "2024-01-15",
		Stats: student.Stats{Total: 2, Present: 1, Marked: 1, PresentPct: 50, MarkedPct: 50},
		Advanced: student.AdvancedStats{
			GradeDistribution: []student.GradeCount{{Grade: "الاول", Count: 1}, {Grade: "الثاني", Count: 1}},
			Gender:            student.GenderSplit{Males: 1, Females: 1, MalesPct: 50, FemalesPct: 50},
			Siblings:          1,
			SiblingsPct:       50,
		},
	}

	tests := []httpTest{
		{name: "auth required", path: rosterPath("/stats", map[string]string{"date": "2024-01-15"}), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "stats for the marked day", token: viewerToken(t),
			path:     rosterPath("/stats", map[string]string{"date": "2024-01-15"}),
			wantCode: http.StatusOK, wantData: marchallObj(t, want),
		},
		{
			name: "grade-filtered stats", token: viewerToken(t),
			path: rosterPath("/stats", map[string]string{"date": "2024-01-15", "grade": "الاول"}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.StatsResponse{
				Date:  "2024-01-15",
				Stats: student.Stats{Total: 1, Present: 1, Marked: 1, PresentPct: 100, MarkedPct: 100},
				Advanced: student.AdvancedStats{
					GradeDistribution: []student.GradeCount{{Grade: "الاول", Count: 1}},
					Gender:            student.GenderSplit{Males: 1, MalesPct: 100},
					Siblings:          1,
					SiblingsPct:       100,
				},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_siblingGroups(t *testing.T) {
	resetRoster()
	s1 := testutil.CreateStudent(t, svc, "أحمد خالد يوسف سالم", "الاول", student.GenderMale, "0599-123-456", student.SiblingsYes)
	s2 := testutil.CreateStudent(t, svc, "سارة خالد يوسف سالم", "الثاني", student.GenderFemale, "0599123456", student.SiblingsYes)
	testutil.CreateStudent(t, svc, "محمود عمر فؤاد نصار", "الاول", student.GenderMale, "0598765432", student.SiblingsYes)

	tests := []httpTest{
		{name: "auth required", path: rosterPath("/siblings", nil), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "families across grades", token: viewerToken(t), path: rosterPath("/siblings", nil),
			wantCode: http.StatusOK,
			// roster is newest-first, so the group lists s2 before s1
			wantData: marchallObj(t, []student.SiblingGroup{{Mobile: s2.Mobile, Students: []student.Student{s2, s1}}}),
		},
		{
			name: "grade filter can split a family", token: viewerToken(t),
			path:     rosterPath("/siblings", map[string]string{"grade": "الاول"}),
			wantCode: http.StatusOK, wantData: marchallObj(t, []student.SiblingGroup{}),
		},
		{
			name: "search by member name", token: viewerToken(t),
			path:     rosterPath("/siblings", map[string]string{"search": "سارة"}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []student.SiblingGroup{{Mobile: s2.Mobile, Students: []student.Student{s2, s1}}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_importExport(t *testing.T) {
	resetRoster()
	admin := adminToken(t)

	csvText := "طابع زمني,اسم الطالب رباعي,رقم الهوية الطالب,جنس الطالب,الطالب في الصف,رقم الموبايل,هل له اخوة في نفس المركز؟,ماهو أقرب معلم؟\n" +
		"2024-01-01,أحمد خالد يوسف سالم,123,ذكر,الاول,0599111222,لا,المسجد\n" +
		"2024-01-02,,456,ذكر,الثاني,0599333444,لا,المدرسة\n" +
		"2024-01-03,سارة محمد علي حسن,789,انثى,الثاني,0599555666,نعم,المدرسة"

	t.Run("viewer may import", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/v1/students/import", viewerToken(t), "roster.csv", []byte(csvText))
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, map[string]int{"imported": 2})}
		checkCodeAndData(t, tt, rec)
		if svc.Count() != 2 {
			t.Errorf("Count() = %d; want 2 (nameless row dropped)", svc.Count())
		}
	})

	t.Run("non-CSV upload is rejected", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/v1/students/import", admin, "roster.txt", []byte(csvText))
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"file": "please select a valid CSV file"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("empty CSV keeps the roster", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/v1/students/import", admin, "empty.csv", []byte("اسم الطالب رباعي\n"))
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"file": "CSV contains no student rows"})}
		checkCodeAndData(t, tt, rec)
		if svc.Count() != 2 {
			t.Errorf("Count() = %d; a rejected import must not touch the roster", svc.Count())
		}
	})

	t.Run("filtered export", func(t *testing.T) {
		// mark the first imported record present, then export the search hit
		records := svc.All()
		svc.MarkAttendance(records[0].ID, "2024-01-15", student.StatusPresent)

		path := rosterPath("/export", map[string]string{"search": "أحمد", "date": "2024-01-15"})
		req, rec := newAuthRequest(http.MethodGet, path, viewerToken(t))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("Content-Type = %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "students_registrations.csv") {
			t.Errorf("Content-Disposition = %q", cd)
		}

		body := rec.Body.String()
		if !strings.HasPrefix(body, "\uFEFF") {
			t.Error("export must carry a UTF-8 BOM")
		}
		if !strings.Contains(body, "حالة الحضور (2024-01-15)") {
			t.Error("attendance column missing")
		}
		if !strings.Contains(body, "أحمد خالد يوسف سالم") || strings.Contains(body, "سارة محمد علي حسن") {
			t.Error("export must contain only the filtered records")
		}
	})
}
