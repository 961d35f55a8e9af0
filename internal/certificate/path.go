package certificate

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	courseDirRe   = regexp.MustCompile(`[^a-z0-9_]`)
	studentNameRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	spacesRe      = regexp.MustCompile(`\s+`)
	segmentRe     = regexp.MustCompile(`[\\/:*?"<>|]+`)
)

// CourseDirName: нижний регистр, пробелы в "_", всё кроме [a-z0-9_] выбрасывается.
func CourseDirName(courseName string) string {
	s := strings.ReplaceAll(strings.ToLower(courseName), " ", "_")
	return courseDirRe.ReplaceAllString(s, "")
}

// CleanStudentName оставляет латиницу, цифры и пробелы; серии пробелов становятся "_".
func CleanStudentName(fullName string) string {
	s := studentNameRe.ReplaceAllString(fullName, "")
	return spacesRe.ReplaceAllString(s, "_")
}

// segment не даёт идентификатору выйти за пределы своего каталога.
func segment(s string) string {
	s = segmentRe.ReplaceAllString(strings.TrimSpace(s), "_")
	if s == "." || s == ".." || s == "" {
		return "_"
	}
	return s
}

// Path: <root>/Certificate_<course>/<student>/<course dir>/<Name>_Cert_<course>.xlsx
func Path(root, courseID, admissionNo, courseName, studentName string) string {
	id := segment(courseID)
	return filepath.Join(root,
		"Certificate_"+id,
		segment(admissionNo),
		segment(CourseDirName(courseName)),
		CleanStudentName(studentName)+"_Cert_"+id+".xlsx",
	)
}
