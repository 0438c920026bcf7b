package service

const (
	greetingText = "Hello! I'm your day trading bot. I monitor your watchlist and send buy/sell signals " +
		"when professional trading thresholds are crossed.\n"

	helpText = "Available commands:\n" +
		"/start - Start monitoring the watchlist in this chat\n" +
		"/stop - Stop monitoring in this chat\n" +
		"/add <coin> - Add a coin to your watchlist (e.g., /add bitcoin)\n" +
		"/remove <coin> - Remove a coin from your watchlist (e.g., /remove bitcoin)\n" +
		"/list - Show your current watchlist\n" +
		"/price <coin> - Get the live price of a coin (e.g., /price bitcoin)\n" +
		"/help - Show this message"

	btnList = "📋 Watchlist"
	btnStop = "⏹ Stop"
	btnHelp = "❓ Help"
)
