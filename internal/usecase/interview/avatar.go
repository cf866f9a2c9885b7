package interview

import "time"

type AvatarState int

const (
	AvatarIdle AvatarState = iota
	AvatarSpeaking
	AvatarFading
)

func (s AvatarState) String() string {
	switch s {
	case AvatarSpeaking:
		return "speaking"
	case AvatarFading:
		return "fading"
	default:
		return "idle"
	}
}

// Avatar tracks the Speaking/Idle presentation and drives the renderer.
type Avatar struct {
	renderer     Renderer
	sched        Scheduler
	fadeDuration time.Duration
	state        AvatarState
	fade         *deadline
}

func NewAvatar(renderer Renderer, sched Scheduler, fadeDuration time.Duration) *Avatar {
	return &Avatar{renderer: renderer, sched: sched, fadeDuration: fadeDuration}
}

// EnterSpeaking shows the motion representation from the start.
func (a *Avatar) EnterSpeaking() {
	a.fade.cancel()
	a.fade = nil
	a.state = AvatarSpeaking
	a.renderer.ShowSpeaking()
}

// BeginFadeToIdle cross-fades to the static image. Ignored unless speaking.
func (a *Avatar) BeginFadeToIdle() {
	if a.state != AvatarSpeaking {
		return
	}
	a.state = AvatarFading
	a.renderer.CrossFade(a.fadeDuration)
	a.fade = newDeadline(a.sched, a.fadeDuration, func() {
		a.fade = nil
		a.state = AvatarIdle
		a.renderer.ShowIdle()
	})
}

func (a *Avatar) Stop() {
	a.fade.cancel()
	a.fade = nil
	if a.state != AvatarIdle {
		a.state = AvatarIdle
		a.renderer.ShowIdle()
	}
}

func (a *Avatar) State() AvatarState { return a.state }
