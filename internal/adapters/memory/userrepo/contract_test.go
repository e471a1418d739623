package userrepo

import (
	"testing"

	"github.com/camino-app/route-planner-api/internal/adapters/contracttest"
	userrepoport "github.com/camino-app/route-planner-api/internal/ports/out/userrepo"
)

func TestContract_MemoryUserRepo(t *testing.T) {
	contracttest.RunUserRepo(t, func(t *testing.T) (userrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
