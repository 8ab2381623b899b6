package nudge

import "math/rand/v2"

var titles = []string{
	"🚀 Keep Your Streak Going!",
	"⏰ Time for Your Daily Check-In!",
	"💪 You Got This!",
	"🔥 Don’t Let the Streak Break!",
	"🌱 Grow Your Habit Today!",
	"⚡ Don’t Miss Out!",
	"🔄 Just One More Step!",
	"⏳ Your Habit Needs You!",
	"📅 Habit Check-In Time!",
	"🌟 Reset Your Streak Today!",
}

var bodies = []string{
	"Keep up the good work, check your habit progress!",
	"Stay on track! Don’t forget to log your progress!",
	"Another step closer to your goal, keep going!",
	"You’re on fire! Check in and maintain your streak!",
	"Just one more check-in and your streak stays strong!",
	"A simple check-in today keeps your progress on track!",
	"Keep going! A quick check-in will boost your habit progress!",
	"Check in now and watch your habit grow stronger!",
	"A quick check-in now keeps the streak alive!",
	"Don’t break the flow, check in and keep going!",
	"It’s that time again! Keep your habit streak on point!",
	"It’s a new day, time to check in and start fresh!",
}

// Messages picks reminder copy. The zero value uses the global source.
type Messages struct {
	Rand *rand.Rand
}

func (m Messages) intN(n int) int {
	if m.Rand != nil {
		return m.Rand.IntN(n)
	}
	return rand.IntN(n)
}

// Pick returns a random title and body.
func (m Messages) Pick() (title, body string) {
	return titles[m.intN(len(titles))], bodies[m.intN(len(bodies))]
}
