package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"reflect"
	"strings"
)

// StructToCsvHeader takes a struct type and returns a slice of strings representing the CSV header.
// It uses the `csv` tag on struct fields to determine the header name.
// If a field doesn't have a `csv` tag, the field name is used.
func StructToCsvHeader(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	headers := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		headerName := field.Name
		if csvTag := field.Tag.Get("csv"); csvTag != "" {
			headerName = csvTag
		}
		headers = append(headers, headerName)
	}
	return headers
}

// CreateCsvFile creates (or truncates) filePath and writes the header line.
func CreateCsvFile(filePath string, header []string, strict bool) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}

	if err := writeRecords(file, [][]string{header}, strict); err != nil {
		file.Close()
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	return file.Close()
}

// AppendCsvRecords opens filePath in append mode, writes the records and
// closes the file again, so every completed call is durable on its own.
//
// Without strict, fields are joined with commas as they are: callers are
// responsible for any quoting. With strict, encoding/csv quotes fields
// that need it.
func AppendCsvRecords(filePath string, records [][]string, strict bool) error {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error opening CSV file: %w", err)
	}

	if err := writeRecords(file, records, strict); err != nil {
		file.Close()
		return fmt.Errorf("error writing CSV rows: %w", err)
	}
	return file.Close()
}

func writeRecords(file *os.File, records [][]string, strict bool) error {
	if strict {
		writer := csv.NewWriter(file)
		if err := writer.WriteAll(records); err != nil {
			return err
		}
		return writer.Error()
	}

	var b strings.Builder
	for _, record := range records {
		b.WriteString(strings.Join(record, ","))
		b.WriteByte('\n')
	}
	_, err := file.WriteString(b.String())
	return err
}
