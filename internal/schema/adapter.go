// Package schema normalizes heterogeneous stored recommendation documents
// into the canonical model. Historical records carry the same logical field
// under several key names; each canonical field has an ordered alias list and
// the first non-empty match wins. All new writes use canonical names only.
package schema

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shareit-app/referral-service/internal/models"
)

// DefaultDisplayRating is the placeholder shown when a recommendation has no
// real ratings. It is cosmetic only and never feeds aggregation.
const DefaultDisplayRating = 4.5

// Alias tables, canonical name first. Order is the resolution priority.
var (
	idAliases            = []string{"_id", "id", "recommendationId", "recId"}
	businessIDAliases    = []string{"business_id", "businessId", "business._id", "business.id"}
	businessNameAliases  = []string{"business_name", "businessName", "business.name", "name"}
	businessImageAliases = []string{"business_image", "businessImage"}
	creatorAliases       = []string{"creator_user_id", "userId", "recommenderId", "creatorId", "user.id", "user.uid", "creator.uid"}
	textAliases          = []string{"text", "description"}
	imageURLAliases      = []string{"image_url", "imageUrl", "photoUrl", "image"}
	discountAliases      = []string{"discount", "discountText", "offer"}
	savedCountAliases    = []string{"saved_count", "savedCount", "saves"}
	validUntilAliases    = []string{"valid_until", "validUntil", "expiresAt", "expiryDate"}
	createdAtAliases     = []string{"created_at", "createdAt", "timestamp"}
)

// CreatorAliases returns every key the creator id may be stored under, for
// building alias-tolerant queries. The returned slice must not be mutated.
func CreatorAliases() []string { return creatorAliases }

// Normalize converts a raw stored document into the canonical model. It
// fails only when the record has no usable id; every other field degrades to
// a documented default.
func Normalize(raw bson.M, now time.Time) (*models.Recommendation, error) {
	id := lookupString(raw, idAliases)
	if id == "" {
		return nil, fmt.Errorf("%w: recommendation record has no id", models.ErrValidation)
	}

	rec := &models.Recommendation{
		ID:            id,
		BusinessID:    lookupString(raw, businessIDAliases),
		BusinessName:  lookupString(raw, businessNameAliases),
		BusinessImage: lookupString(raw, businessImageAliases),
		CreatorUserID: lookupString(raw, creatorAliases),
		Text:          lookupString(raw, textAliases),
		ImageURL:      lookupString(raw, imageURLAliases),
		Discount:      lookupString(raw, discountAliases),
		Ratings:       lookupRatings(raw),
	}

	// legacy shape: business image only inside an images array
	if rec.BusinessImage == "" {
		if imgs, ok := lookup(raw, "images").([]interface{}); ok && len(imgs) > 0 {
			if s, ok := imgs[0].(string); ok {
				rec.BusinessImage = s
			}
		}
	}

	if t, ok := lookupTime(raw, validUntilAliases); ok {
		rec.ValidUntil = t
	} else {
		rec.ValidUntil = now.Add(models.RecommendationTTL)
	}
	if t, ok := lookupTime(raw, createdAtAliases); ok {
		rec.CreatedAt = t
	}

	if n, ok := lookupInt64(raw, savedCountAliases); ok {
		rec.SavedCount = n
	} else {
		rec.SavedCount = fillerSavedCount(id)
		rec.SavedCountEstimated = true
	}

	// The true mean excludes the creator's own entry and is distinct from the
	// display placeholder: "no ratings yet" must never read as "rated 4.5".
	if mean, ok := models.ComputeMeanRating(rec.Ratings, rec.CreatorUserID); ok {
		rec.MeanRating = mean
		rec.HasRatings = true
		rec.DisplayRating = mean
	} else if legacy, ok := lookupFloat(raw, []string{"mean_rating", "rating"}); ok && legacy > 0 {
		rec.DisplayRating = legacy
	} else {
		rec.DisplayRating = DefaultDisplayRating
	}

	return rec, nil
}

// lookup resolves a possibly dotted key ("user.id") against nested maps.
func lookup(raw bson.M, key string) interface{} {
	parts := strings.Split(key, ".")
	var cur interface{} = raw
	for _, p := range parts {
		switch m := cur.(type) {
		case bson.M:
			cur = m[p]
		case map[string]interface{}:
			cur = m[p]
		default:
			return nil
		}
	}
	return cur
}

func lookupString(raw bson.M, aliases []string) string {
	for _, key := range aliases {
		switch v := lookup(raw, key).(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case primitive.ObjectID:
			return v.Hex()
		}
	}
	return ""
}

func lookupInt64(raw bson.M, aliases []string) (int64, bool) {
	for _, key := range aliases {
		switch v := lookup(raw, key).(type) {
		case int:
			return int64(v), true
		case int32:
			return int64(v), true
		case int64:
			return v, true
		case float64:
			return int64(v), true
		}
	}
	return 0, false
}

func lookupFloat(raw bson.M, aliases []string) (float64, bool) {
	for _, key := range aliases {
		switch v := lookup(raw, key).(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int32:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	}
	return 0, false
}

// lookupTime accepts the timestamp shapes found in historical records:
// native dates, {seconds} maps, unix seconds and RFC3339 strings.
func lookupTime(raw bson.M, aliases []string) (time.Time, bool) {
	for _, key := range aliases {
		if t, ok := coerceTime(lookup(raw, key)); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func coerceTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	case bson.M:
		if secs, ok := coerceInt64(t["seconds"]); ok {
			return time.Unix(secs, 0).UTC(), true
		}
	case map[string]interface{}:
		if secs, ok := coerceInt64(t["seconds"]); ok {
			return time.Unix(secs, 0).UTC(), true
		}
	case int64:
		return time.Unix(t, 0).UTC(), true
	case float64:
		return time.Unix(int64(t), 0).UTC(), true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func coerceInt64(v interface{}) (int64, bool) {
	switch s := v.(type) {
	case int:
		return int64(s), true
	case int32:
		return int64(s), true
	case int64:
		return s, true
	case float64:
		return int64(s), true
	}
	return 0, false
}

func lookupRatings(raw bson.M) map[string]int {
	out := map[string]int{}
	var m bson.M
	switch v := lookup(raw, "ratings").(type) {
	case bson.M:
		m = v
	case map[string]interface{}:
		m = v
	default:
		return out
	}
	for rater, score := range m {
		if n, ok := coerceInt64(score); ok && n >= 1 && n <= 5 {
			out[rater] = int(n)
		}
	}
	return out
}

// fillerSavedCount produces the display filler for records missing a saved
// count. Derived from the id so repeated reads agree, unlike the original
// per-render random value.
func fillerSavedCount(id string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int64(h.Sum32()%90) + 10
}
