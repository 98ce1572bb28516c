package sanitize

import (
	"sort"
	"strings"
)

// DefaultDenyKeys are the identity, media and UI-only keys of profile and
// recommendation responses that are never sent to a model.
var DefaultDenyKeys = []string{
	"id", "_id", "url", "icon_url", "icon_urls", "section_id", "match_group_key",
	"image_url", "content_hash",

	// recommendation feed
	"online_now", "type", "tapped_action", "images", "preview_url", "uri",
	"profile_detail_content", "tappy_content", "facebook", "section_name",
	"ui_configuration", "badges", "is_superlike_upsell", "hidden_intent",
	"s_number", "user_posts", "distance_mi", "is_common", "answer_id",

	// profile
	"available_descriptors", "available_interests", "likes",
	"descriptor_choice_id", "global_mode", "billing_info", "crm_id",
	"autoplay_video", "photos", "create_date", "mm_enabled", "noonlight_protected",
	"recommended_sort_discoverable", "sparks_quizzes", "ping_time", "phone_id",
}

// DenyList is a set of key names.
type DenyList map[string]struct{}

// NewDenyList builds a set from keys. Blank keys are ignored.
func NewDenyList(keys ...string) DenyList {
	list := make(DenyList, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		list[key] = struct{}{}
	}
	return list
}

func (d DenyList) Contains(key string) bool {
	_, ok := d[key]
	return ok
}

// Keys returns the sorted key names.
func (d DenyList) Keys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
