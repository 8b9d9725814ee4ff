package store

import "testing"

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetMissingKey(t *testing.T) {
	db := testDB(t)

	v, err := db.Get("absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "" {
		t.Errorf("value = %q, want empty", v)
	}
}

func TestPutGet(t *testing.T) {
	db := testDB(t)

	if err := db.Put("triggers", `[{"id":"t1"}]`); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, err := db.Get("triggers")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != `[{"id":"t1"}]` {
		t.Errorf("value = %q", v)
	}
}

func TestPutOverwrites(t *testing.T) {
	db := testDB(t)

	db.Put("k", "first")
	if err := db.Put("k", "second"); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, _ := db.Get("k")
	if v != "second" {
		t.Errorf("value = %q, want second", v)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)

	db.Put("k", "v")
	if err := db.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	v, _ := db.Get("k")
	if v != "" {
		t.Errorf("value = %q, want empty after delete", v)
	}

	// Deleting a missing key is fine.
	if err := db.Delete("absent"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != len(migrations) {
		t.Errorf("version = %d, want %d", v, len(migrations))
	}
}
