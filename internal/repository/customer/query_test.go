package customer

import (
	"strings"
	"testing"
)

func containsArg(args []interface{}, want string) bool {
	for _, a := range args {
		if s, ok := a.(string); ok && s == want {
			return true
		}
	}
	return false
}

func TestBuildList_SearchMatchesNamesEmailAndPhoneDigits(t *testing.T) {
	sql, args, err := buildList(ListQuery{Search: "555-0100", Sort: "", Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("buildList: %v", err)
	}
	if !strings.Contains(sql, "ILIKE") {
		t.Fatalf("expected ILIKE clauses, got %s", sql)
	}
	if !strings.Contains(sql, "regexp_replace(phone") {
		t.Fatalf("expected phone digit clause, got %s", sql)
	}
	if !containsArg(args, "%5550100%") {
		t.Fatalf("expected digit-only phone pattern in args %v", args)
	}
}

func TestBuildList_LetterSearchSkipsPhoneClause(t *testing.T) {
	sql, args, err := buildList(ListQuery{Search: "Jane", Limit: 10})
	if err != nil {
		t.Fatalf("buildList: %v", err)
	}
	if strings.Contains(sql, "regexp_replace(phone") {
		t.Fatalf("did not expect phone clause for letter-only search: %s", sql)
	}
	if !containsArg(args, "%Jane%") {
		t.Fatalf("expected substring pattern in args %v", args)
	}
}

func TestBuildList_EscapesLikeMetacharacters(t *testing.T) {
	_, args, err := buildList(ListQuery{Search: "50%_off", Limit: 10})
	if err != nil {
		t.Fatalf("buildList: %v", err)
	}
	if !containsArg(args, `%50\%\_off%`) {
		t.Fatalf("expected escaped pattern in args %v", args)
	}
}

func TestBuildList_BlankSearchHasNoFilter(t *testing.T) {
	sql, _, err := buildList(ListQuery{Search: "   ", Limit: 10})
	if err != nil {
		t.Fatalf("buildList: %v", err)
	}
	if strings.Contains(sql, "WHERE") {
		t.Fatalf("expected no WHERE clause for blank search: %s", sql)
	}
}

func TestBuildList_SortSpec(t *testing.T) {
	sql, _, err := buildList(ListQuery{Sort: "lastName,-createdAt", Limit: 10})
	if err != nil {
		t.Fatalf("buildList: %v", err)
	}
	last := strings.Index(sql, `"last_name" ASC`)
	created := strings.Index(sql, `"created_at" DESC`)
	if last == -1 || created == -1 || created < last {
		t.Fatalf("expected last_name ASC then created_at DESC, got %s", sql)
	}
}

func TestBuildList_UnknownSortFieldsFallBackToDefault(t *testing.T) {
	sql, _, err := buildList(ListQuery{Sort: "passwordHash,__proto__", Limit: 10})
	if err != nil {
		t.Fatalf("buildList: %v", err)
	}
	if !strings.Contains(sql, `"first_name" ASC`) || !strings.Contains(sql, `"last_name" ASC`) {
		t.Fatalf("expected default sort, got %s", sql)
	}
	if strings.Contains(sql, "passwordHash") {
		t.Fatalf("unknown field leaked into SQL: %s", sql)
	}
}

func TestBuildCount_IgnoresPaging(t *testing.T) {
	sql, _, err := buildCount(ListQuery{Search: "jane", Offset: 50, Limit: 10})
	if err != nil {
		t.Fatalf("buildCount: %v", err)
	}
	if strings.Contains(sql, "LIMIT") || strings.Contains(sql, "OFFSET") {
		t.Fatalf("count query must not page: %s", sql)
	}
	if !strings.Contains(sql, "COUNT") {
		t.Fatalf("expected COUNT, got %s", sql)
	}
}
