// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"reflect"
	"strings"
	"testing"
)

func TestPocketCSV(t *testing.T) {
	csvData := `title,url,time_added,tags,status
Some Paper,https://arxiv.org/abs/2301.07041,1673981908,,unread
A Blog,https://example.com/post,1673981999,,unread
PDF Link,https://arxiv.org/pdf/2301.00001v2,1673982000,ml,archive
Duplicate,https://arxiv.org/abs/2301.07041,1673982100,,unread
`
	ids, err := PocketCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("PocketCSV: %v", err)
	}
	want := []string{"2301.07041", "2301.00001"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestPocketCSVNoURLColumn(t *testing.T) {
	if _, err := PocketCSV(strings.NewReader("title,link\na,b\n")); err == nil {
		t.Fatal("accepted CSV without url column")
	}
}

func TestPocketCSVEmpty(t *testing.T) {
	if _, err := PocketCSV(strings.NewReader("")); err == nil {
		t.Fatal("accepted empty file")
	}
}

func TestIDFile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		sep   string
		want  []string
	}{
		{"comma separated", "2301.07041, 2301.00001,2301.00002\n", ",", []string{"2301.07041", "2301.00001", "2301.00002"}},
		{"newline separated", "2301.07041\n2301.00001\n", "\n", []string{"2301.07041", "2301.00001"}},
		{"versions stripped", "2301.07041v2,2301.07041", ",", []string{"2301.07041"}},
		{"garbage ignored", "hello, 2301.07041, world", ",", []string{"2301.07041"}},
		{"empty", "", ",", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := IDFile(strings.NewReader(tt.input), tt.sep)
			if err != nil {
				t.Fatalf("IDFile: %v", err)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}
