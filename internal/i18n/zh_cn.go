package i18n

var zhCN = map[Key]string{
	// ===== 提示 =====
	MsgSessionExpired:   "登录已过期，请重新登录",
	MsgRequestFailed:    "请求失败",
	MsgLoginRequired:    "请先登录",
	MsgLoggedIn:         "登录成功",
	MsgLoggedOut:        "已退出登录",
	MsgPasswordChanged:  "密码修改成功",
	MsgRestartRequested: "系统正在重启",
	MsgDownloadSaved:    "文件已保存",

	// ===== 通道状态 =====
	StatusExcellent: "优秀",
	StatusGood:      "良好",
	StatusFair:      "一般",
	StatusPoor:      "较差",
	StatusOffline:   "离线",
	StatusUnknown:   "未知",

	// ===== 页面 =====
	TitleLogin:           "登录",
	TitleDashboard:       "首页监控",
	TitleLogs:            "系统日志",
	TitleSystem:          "系统设置",
	TitleChannels:        "采集通道",
	TitleEdgeCompute:     "边缘计算",
	TitleDevices:         "设备列表",
	TitlePoints:          "点位数据",
	TitleNorthbound:      "北向数据上报",
	TitlePayloadInspect:  "报文解析",
	TitleChangePassword:  "修改密码",
	TitleSessionOverview: "会话信息",
}
