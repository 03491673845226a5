package cmd

type Config struct {
	HTTPPort                 string
	DBHost                   string
	DBPort                   string
	DBUser                   string
	DBPassword               string
	DBName                   string
	DBSslMode                string
	NATSUrl                  string
	NATSGPSSubject           string
	WorkdayStart             string
	AverageSpeedKmph         string
	ETARefreshSchedule       string
	PastPlannedDateTolerance string
}
