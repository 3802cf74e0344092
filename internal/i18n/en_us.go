package i18n

var enUS = map[Key]string{
	MsgSessionExpired:   "Session expired, please log in again",
	MsgRequestFailed:    "Request failed",
	MsgLoginRequired:    "Please log in first",
	MsgLoggedIn:         "Logged in",
	MsgLoggedOut:        "Logged out",
	MsgPasswordChanged:  "Password changed",
	MsgRestartRequested: "System is restarting",
	MsgDownloadSaved:    "File saved",

	StatusExcellent: "Excellent",
	StatusGood:      "Good",
	StatusFair:      "Fair",
	StatusPoor:      "Poor",
	StatusOffline:   "Offline",
	StatusUnknown:   "Unknown",

	TitleLogin:           "Login",
	TitleDashboard:       "Dashboard",
	TitleLogs:            "System Logs",
	TitleSystem:          "System Settings",
	TitleChannels:        "Channels",
	TitleEdgeCompute:     "Edge Compute",
	TitleDevices:         "Devices",
	TitlePoints:          "Points",
	TitleNorthbound:      "Northbound",
	TitlePayloadInspect:  "Payload Inspector",
	TitleChangePassword:  "Change Password",
	TitleSessionOverview: "Session",
}
