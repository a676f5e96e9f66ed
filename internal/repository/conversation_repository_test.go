package repository

import (
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=portfolio dbname=portfolio sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	return db
}

func TestKeepNewest_SQL(t *testing.T) {
	db := newDryRunDB(t)

	tests := []struct {
		name string
		keep int
		want []string
	}{
		{
			name: "trims to newest",
			keep: 500,
			want: []string{
				`DELETE FROM "conversation_logs"`,
				`list_key = 'portfolio:conversations' AND id NOT IN (SELECT`,
				`FROM "conversation_logs" WHERE list_key = 'portfolio:conversations' ORDER BY id DESC LIMIT 500)`,
			},
		},
		{
			name: "keep nothing",
			keep: 0,
			want: []string{`DELETE FROM "conversation_logs" WHERE list_key = 'portfolio:conversations'`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				return keepNewest(tx, "portfolio:conversations", tt.keep)
			})
			for _, w := range tt.want {
				if !strings.Contains(sql, w) {
					t.Errorf("sql = %s\nmissing %s", sql, w)
				}
			}
			if tt.keep == 0 && strings.Contains(sql, "NOT IN") {
				t.Errorf("sql = %s, want no subquery", sql)
			}
		})
	}
}
