package testutil

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/koinonia-app/core/config"
	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/stretchr/testify/require"
)

// Fixture user ids.
const (
	Sarah = "user-sarah" // elder
	John  = "user-john"  // member
	Mary  = "user-mary"  // member
)

// Fixture badge ids.
const (
	BadgeFirstPost     = "badge-first-post"
	BadgeEncourager    = "badge-encourager"
	BadgePrayerWarrior = "badge-prayer-warrior"
	BadgeScholar       = "badge-scholar"
)

func ProfileRow(id, name string, role entity.Role) remote.Row {
	return remote.Row{
		"id":        id,
		"full_name": name,
		"email":     id + "@example.test",
		"role":      string(role),
		"status":    string(entity.ProfileActive),
	}
}

func BadgeRow(id, slug, name string, action entity.BadgeAction, threshold int) remote.Row {
	return remote.Row{
		"id":        id,
		"slug":      slug,
		"name":      name,
		"action":    string(action),
		"threshold": threshold,
	}
}

// SeedCommunity loads the standard fixture profiles and badge catalog.
func SeedCommunity(f *FakeRemote) {
	f.Seed(entity.TableProfiles,
		ProfileRow(Sarah, "Sarah Miller", entity.RoleElder),
		ProfileRow(John, "John Carter", entity.RoleMember),
		ProfileRow(Mary, "Mary Okafor", entity.RoleMember),
	)

	f.Seed(entity.TableBadges,
		BadgeRow(BadgeFirstPost, "first-post", "First Post", entity.ActionPostCreated, 1),
		BadgeRow(BadgeEncourager, "encourager", "Encourager", entity.ActionCommentAdded, 10),
		BadgeRow(BadgePrayerWarrior, "prayer-warrior", "Prayer Warrior", entity.ActionPrayerResponded, 25),
		BadgeRow(BadgeScholar, "scholar", "Scholar", entity.ActionStudyDayCompleted, 1),
	)
}

// AccessToken issues a signed token whose subject is the given user, the way
// the remote auth service would.
func AccessToken(t *testing.T, userID string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// TestConfigs returns configs with the cooldown disabled and a long feedback
// TTL so messages survive assertions.
func TestConfigs() *config.Configs {
	return &config.Configs{
		Env:      "test",
		Feedback: config.FeedbackConfigs{TTLSeconds: 60},
		Cooldown: config.CooldownConfigs{WindowSeconds: -1},
		File:     config.FileConfigs{ImageBucket: "images"},
	}
}
