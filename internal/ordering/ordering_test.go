package ordering

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type orderedWidget struct {
	ID       uint `gorm:"primaryKey"`
	GroupID  uint
	Position int
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db error: %v", err)
	}
	if err := db.AutoMigrate(&orderedWidget{}); err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	return db
}

func TestFieldNextEmptyScope(t *testing.T) {
	db := openTestDB(t)
	f := Field{Column: "position", ScopeBy: []string{"group_id"}}

	next, err := f.Next(db, &orderedWidget{}, uint(1))
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if next != 0 {
		t.Fatalf("expected base position 0, got %d", next)
	}
}

func TestFieldNextIncrementsWithinScope(t *testing.T) {
	db := openTestDB(t)
	f := Field{Column: "position", ScopeBy: []string{"group_id"}}

	for i := 0; i < 3; i++ {
		if err := db.Create(&orderedWidget{GroupID: 1, Position: i}).Error; err != nil {
			t.Fatalf("create widget error: %v", err)
		}
	}

	next, err := f.Next(db, &orderedWidget{}, uint(1))
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if next != 3 {
		t.Fatalf("expected next position 3, got %d", next)
	}

	// 另一个 scope 独立计数
	next, err = f.Next(db, &orderedWidget{}, uint(2))
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if next != 0 {
		t.Fatalf("expected position 0 in disjoint scope, got %d", next)
	}
}

func TestFieldNextGlobalWhenNoScope(t *testing.T) {
	db := openTestDB(t)
	f := Field{Column: "position"}

	if err := db.Create(&orderedWidget{GroupID: 1, Position: 4}).Error; err != nil {
		t.Fatalf("create widget error: %v", err)
	}
	if err := db.Create(&orderedWidget{GroupID: 2, Position: 7}).Error; err != nil {
		t.Fatalf("create widget error: %v", err)
	}

	next, err := f.Next(db, &orderedWidget{})
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if next != 8 {
		t.Fatalf("expected global next position 8, got %d", next)
	}
}

func TestFieldNextScopeValueMismatch(t *testing.T) {
	db := openTestDB(t)
	f := Field{Column: "position", ScopeBy: []string{"group_id"}}

	if _, err := f.Next(db, &orderedWidget{}); err == nil {
		t.Fatal("expected error for missing scope values")
	}
}
