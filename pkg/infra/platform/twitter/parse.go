package twitter

import (
	"fmt"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/valyala/fastjson"
)

var parserPool fastjson.ParserPool

func parseAccount(body []byte) (*platform.Account, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}
	data := v.Get("data")
	if data == nil || data.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("user response has no data object")
	}
	acc := accountFromValue(data)
	return &acc, nil
}

func parseAccountPage(body []byte) ([]platform.Account, string, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse users page: %w", err)
	}
	// an account with no followers comes back without a data key
	items := v.GetArray("data")
	out := make([]platform.Account, 0, len(items))
	for _, item := range items {
		out = append(out, accountFromValue(item))
	}
	return out, string(v.GetStringBytes("meta", "next_token")), nil
}

func accountFromValue(v *fastjson.Value) platform.Account {
	return platform.Account{
		ID:             string(v.GetStringBytes("id")),
		Username:       string(v.GetStringBytes("username")),
		DisplayName:    string(v.GetStringBytes("name")),
		Bio:            string(v.GetStringBytes("description")),
		AvatarURL:      string(v.GetStringBytes("profile_image_url")),
		FollowerCount:  v.GetInt("public_metrics", "followers_count"),
		FollowingCount: v.GetInt("public_metrics", "following_count"),
		IsVerified:     v.GetBool("verified"),
		IsPrivate:      v.GetBool("protected"),
	}
}

// apiError extracts the most specific message from an error payload.
func apiError(status int, body []byte) error {
	v, err := fastjson.ParseBytes(body)
	if err == nil {
		for _, path := range [][]string{{"errors", "0", "detail"}, {"errors", "0", "message"}, {"detail"}, {"title"}} {
			if msg := v.GetStringBytes(path...); len(msg) > 0 {
				return fmt.Errorf("twitter api status %d: %s", status, msg)
			}
		}
	}
	return fmt.Errorf("twitter api status %d", status)
}
