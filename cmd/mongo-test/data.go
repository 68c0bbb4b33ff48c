package main

import (
	"fmt"
	"math/rand"
	"time"
)

// User is the sample document seeded into MongoDB and the sqlite table.
type User struct {
	ID         int        `bson:"_id" gorm:"primaryKey"`
	Name       string     `bson:"name"`
	Email      string     `bson:"email"`
	Age        int        `bson:"age"`
	Score      float64    `bson:"score"`
	Status     string     `bson:"status"`
	Country    string     `bson:"country"`
	Tags       []string   `bson:"tags" gorm:"-"`
	LoginCount int        `bson:"login_count"`
	Archived   bool       `bson:"archived"`
	CreatedAt  time.Time  `bson:"created_at"`
	DeletedAt  *time.Time `bson:"deleted_at,omitempty"`
}

var (
	firstNames = []string{"Ali", "Sara", "Reza", "Anna", "John", "Maria", "Omid", "Lena", "Aria", "Paul"}
	lastNames  = []string{"Karimi", "Smith", "Meyer", "Rossi", "Ahmadi", "Brown", "Novak"}
	domains    = []string{"gmail.com", "example.com", "mail.de", "yahoo.com"}
	statuses   = []string{"active", "inactive", "pending", "banned"}
	countries  = []string{"US", "DE", "IR", "IT", "FR"}
	tagPool    = []string{"premium", "beta", "staff", "newsletter", "mobile"}
)

// generateUsers returns n users; the same seed always yields the same users.
func generateUsers(n int, seed int64) []User {
	r := rand.New(rand.NewSource(seed))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	users := make([]User, 0, n)
	for i := 1; i <= n; i++ {
		first := firstNames[r.Intn(len(firstNames))]
		last := lastNames[r.Intn(len(lastNames))]
		u := User{
			ID:         i,
			Name:       first + " " + last,
			Email:      fmt.Sprintf("%s.%s%d@%s", first, last, i, domains[r.Intn(len(domains))]),
			Age:        14 + r.Intn(60),
			Score:      float64(r.Intn(1000)) / 10,
			Status:     statuses[r.Intn(len(statuses))],
			Country:    countries[r.Intn(len(countries))],
			LoginCount: r.Intn(120),
			Archived:   r.Intn(10) == 0,
			CreatedAt:  base.Add(time.Duration(r.Intn(365*24)) * time.Hour),
		}
		for _, tag := range tagPool {
			if r.Intn(3) == 0 {
				u.Tags = append(u.Tags, tag)
			}
		}
		if r.Intn(8) == 0 {
			deleted := u.CreatedAt.Add(30 * 24 * time.Hour)
			u.DeletedAt = &deleted
		}
		users = append(users, u)
	}
	return users
}
