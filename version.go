package sdk

// Version is the published SDK version.
// 0.3.0: Add Calendar.Upcoming and Jobs.DashboardStats.
// 0.2.0: Breaking - Sessions are owned by session.Manager; Config.AccessToken is gone.
// Remember-me sessions go to Config.Persistent, the rest to Config.Ephemeral.
const Version = "0.3.0"

const defaultUserAgent = "hirelane-sdk-go/" + Version
