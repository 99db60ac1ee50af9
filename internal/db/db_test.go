package db

import (
	"testing"

	"github.com/coomunity/marketplace-backend/internal/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			"plain host",
			config.Config{DBUser: "u", DBPassword: "p", DBHost: "127.0.0.1", DBPort: "3306", DBName: "market"},
			"u:p@tcp(127.0.0.1:3306)/market?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			"host with tcp wrapper",
			config.Config{DBUser: "u", DBPassword: "p", DBHost: "tcp(db:3307)", DBName: "market"},
			"u:p@tcp(db:3307)/market?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			"unix socket path",
			config.Config{DBUser: "u", DBPassword: "p", DBHost: "/var/run/mysqld/mysqld.sock", DBName: "market"},
			"u:p@unix(/var/run/mysqld/mysqld.sock)/market?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			"cloud sql instance wins",
			config.Config{DBUser: "u", DBPassword: "p", DBHost: "ignored", DBPort: "3306", DBName: "market", InstanceConnectionName: "proj:region:inst"},
			"u:p@unix(/cloudsql/proj:region:inst)/market?charset=utf8mb4&parseTime=True&loc=Local",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildDSN(&tt.cfg); got != tt.want {
				t.Fatalf("got=%q want=%q", got, tt.want)
			}
		})
	}
}
