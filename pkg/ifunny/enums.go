package ifunny

import (
	"fmt"
	"sort"
	"strings"
)

// Channel is the id of an iFunny channel.
type Channel string

const (
	ChannelCyberpunk          Channel = "5fd9a9533ea93f29fe1af892"
	ChannelWTF                Channel = "5e28bbc2a264f60031232af1"
	ChannelAnimals            Channel = "5a05c3e640fe2732008b456d"
	ChannelGames              Channel = "5a05c3e640fe2732008b456e"
	ChannelComic              Channel = "5a05c3e640fe2732008b456a"
	ChannelCursed             Channel = "5e28bc02a264f60045536fab"
	ChannelSports             Channel = "5e28bc33a261d0008f3eccc9"
	ChannelVideo              Channel = "5a05c3e640fe2732008b4569"
	ChannelIFunnyOriginals    Channel = "5accedffaeb90000481cda53"
	ChannelWholesomeWednesday Channel = "5b9710bdeb691ec6576b5b61"
)

var channelNames = map[string]Channel{
	"cyberpunk":           ChannelCyberpunk,
	"wtf":                 ChannelWTF,
	"animals":             ChannelAnimals,
	"games":               ChannelGames,
	"comic":               ChannelComic,
	"cursed":              ChannelCursed,
	"sports":              ChannelSports,
	"video":               ChannelVideo,
	"ifunny-originals":    ChannelIFunnyOriginals,
	"wholesome-wednesday": ChannelWholesomeWednesday,
}

// ParseChannel accepts a channel name such as "animals" or a raw channel id.
func ParseChannel(s string) (Channel, error) {
	if c, ok := channelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	for _, c := range channelNames {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q", s)
}

// ChannelNames returns the known channel names, sorted.
func ChannelNames() []string {
	names := make([]string, 0, len(channelNames))
	for name := range channelNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PostVisibility controls who can see an uploaded post.
type PostVisibility string

const (
	VisibilityPublic      PostVisibility = "public"
	VisibilitySubscribers PostVisibility = "subscribers"
)

// ParseVisibility validates a visibility string.
func ParseVisibility(s string) (PostVisibility, error) {
	switch v := PostVisibility(strings.ToLower(s)); v {
	case VisibilityPublic, VisibilitySubscribers:
		return v, nil
	default:
		return "", fmt.Errorf("unknown visibility %q", s)
	}
}

// ReportType is the reason attached to an abuse report.
type ReportType string

const (
	ReportHateSpeech    ReportType = "hate"
	ReportNudity        ReportType = "nude"
	ReportSpam          ReportType = "spam"
	ReportTargetedAbuse ReportType = "target"
	ReportThreatsOfHarm ReportType = "harm"
	ReportBannerIssues  ReportType = "banner"
)

// ParseReportType validates a report type string.
func ParseReportType(s string) (ReportType, error) {
	switch r := ReportType(strings.ToLower(s)); r {
	case ReportHateSpeech, ReportNudity, ReportSpam, ReportTargetedAbuse, ReportThreatsOfHarm, ReportBannerIssues:
		return r, nil
	default:
		return "", fmt.Errorf("unknown report type %q", s)
	}
}
