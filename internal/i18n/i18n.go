package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

type Key string

const (
	MsgSessionExpired    Key = "msg.session_expired"
	MsgRequestFailed     Key = "msg.request_failed"
	MsgLoginRequired     Key = "msg.login_required"
	MsgLoggedIn          Key = "msg.logged_in"
	MsgLoggedOut         Key = "msg.logged_out"
	MsgPasswordChanged   Key = "msg.password_changed"
	MsgRestartRequested  Key = "msg.restart_requested"
	MsgDownloadSaved     Key = "msg.download_saved"
	StatusExcellent      Key = "status.excellent"
	StatusGood           Key = "status.good"
	StatusFair           Key = "status.fair"
	StatusPoor           Key = "status.poor"
	StatusOffline        Key = "status.offline"
	StatusUnknown        Key = "status.unknown"
	TitleLogin           Key = "title.login"
	TitleDashboard       Key = "title.dashboard"
	TitleLogs            Key = "title.logs"
	TitleSystem          Key = "title.system"
	TitleChannels        Key = "title.channels"
	TitleEdgeCompute     Key = "title.edge_compute"
	TitleDevices         Key = "title.devices"
	TitlePoints          Key = "title.points"
	TitleNorthbound      Key = "title.northbound"
	TitlePayloadInspect  Key = "title.payload_inspect"
	TitleChangePassword  Key = "title.change_password"
	TitleSessionOverview Key = "title.session_overview"
)

type Lang string

const (
	ZH_CN Lang = "zh-CN"
	EN_US Lang = "en-US"

	// Default is the language the console ships with.
	Default = ZH_CN
)

var catalogs = map[Lang]map[Key]string{
	ZH_CN: zhCN,
	EN_US: enUS,
}

var matcher = language.NewMatcher([]language.Tag{
	language.MustParse(string(ZH_CN)),
	language.MustParse(string(EN_US)),
})

// T returns the catalog entry for key, falling back to the default language and
// finally to the key itself so missing translations stay visible.
func T(lang Lang, key Key) string {
	if cat, ok := catalogs[lang]; ok {
		if v, ok := cat[key]; ok {
			return v
		}
	}
	if v, ok := catalogs[Default][key]; ok {
		return v
	}
	return string(key)
}

// Parse maps a BCP 47 tag or Accept-Language style list onto a supported
// language. Anything unrecognised resolves to Default.
func Parse(value string) Lang {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	if index == 1 {
		return EN_US
	}
	return ZH_CN
}
