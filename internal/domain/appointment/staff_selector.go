package appointment

import (
	"math/rand"
	"sync"
	"time"

	"github.com/barberian/booking-api/internal/models"
)

// StaffSelector escolhe o barbeiro quando o cliente não indica um.
// Capability injetada para manter os testes determinísticos.
type StaffSelector interface {
	Pick(staff []models.User) *models.User
}

type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSelector() *RandomSelector {
	return &RandomSelector{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *RandomSelector) Pick(staff []models.User) *models.User {
	if len(staff) == 0 {
		return nil
	}

	s.mu.Lock()
	i := s.rng.Intn(len(staff))
	s.mu.Unlock()

	return &staff[i]
}

// FirstSelector: determinístico, usado em testes e como fallback.
type FirstSelector struct{}

func (FirstSelector) Pick(staff []models.User) *models.User {
	if len(staff) == 0 {
		return nil
	}
	return &staff[0]
}
