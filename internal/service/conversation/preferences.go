package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/adapter/cache"
	"github.com/seu-repo/sms-assistant/internal/domain"
)

const peakHourCount = 3

// locationSlots name the slots that carry a place, by domain.
var locationSlots = map[domain.Domain][]string{
	domain.DomainWeather:   {"location"},
	domain.DomainTransport: {"origin", "destination"},
}

func preferencesKey(userID string) string {
	return "prefs:" + userID
}

// Preferences returns the learned preferences for userID, from cache when present.
func (s *Service) Preferences(ctx context.Context, userID string) (domain.Preferences, error) {
	var prefs domain.Preferences
	if s.cache != nil {
		hit, err := cache.GetJSON(ctx, s.cache, preferencesKey(userID), &prefs)
		if err != nil {
			s.log.Warn("Error reading cached preferences", zap.Error(err))
		}
		if hit {
			return prefs, nil
		}
	}

	history, err := s.repo.All(ctx, userID)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("conversation: load history: %w", err)
	}
	prefs = Learn(history)

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, preferencesKey(userID), prefs, s.opts.PreferencesTTL); err != nil {
			s.log.Warn("Error storing preferences", zap.Error(err))
		}
	}
	return prefs, nil
}

// forget drops cached preferences so the next read relearns them.
func (s *Service) forget(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, preferencesKey(userID)); err != nil {
		s.log.Warn("Error clearing cached preferences", zap.Error(err))
	}
}

// Learn derives preferences from a user's history: how often each service is
// used, the three busiest hours, places mentioned and movie genres asked about.
func Learn(history []domain.Conversation) domain.Preferences {
	prefs := domain.Preferences{Services: make(map[domain.Domain]int)}

	var hours [24]int
	seenPlace := make(map[string]bool)
	topics := make(map[string]int)
	var topicOrder []string

	for _, c := range history {
		if c.Intent != "" {
			prefs.Services[c.Intent]++
		}
		if !c.CreatedAt.IsZero() {
			hours[c.CreatedAt.Hour()]++
		}

		slots := decodeSlots(c.Slots)
		for _, key := range locationSlots[c.Intent] {
			place, _ := slots[key].(string)
			place = strings.ToLower(strings.TrimSpace(place))
			if place != "" && !seenPlace[place] {
				seenPlace[place] = true
				prefs.Locations = append(prefs.Locations, place)
			}
		}
		if c.Intent == domain.DomainMovie {
			if genre, _ := slots["genre"].(string); genre != "" {
				genre = strings.ToLower(genre)
				if topics[genre] == 0 {
					topicOrder = append(topicOrder, genre)
				}
				topics[genre]++
			}
		}
	}

	best := 0
	for _, d := range []domain.Domain{
		domain.DomainWeather, domain.DomainMovie, domain.DomainEmail,
		domain.DomainTransport, domain.DomainShift, domain.DomainGeneral,
	} {
		if n := prefs.Services[d]; n > best {
			best, prefs.MostUsed = n, d
		}
	}

	for h, n := range hours {
		if n > 0 {
			prefs.PeakHours = append(prefs.PeakHours, h)
		}
	}
	sort.SliceStable(prefs.PeakHours, func(i, j int) bool {
		return hours[prefs.PeakHours[i]] > hours[prefs.PeakHours[j]]
	})
	if len(prefs.PeakHours) > peakHourCount {
		prefs.PeakHours = prefs.PeakHours[:peakHourCount]
	}

	sort.SliceStable(topicOrder, func(i, j int) bool { return topics[topicOrder[i]] > topics[topicOrder[j]] })
	prefs.Topics = topicOrder
	return prefs
}

func decodeSlots(raw string) map[string]interface{} {
	if raw == "" {
		return nil
	}
	var slots map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil
	}
	return slots
}
