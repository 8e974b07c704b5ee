package parserinvalid

//derive:Debug
type Lonely interface {
	isLonely()
}

//derive:Debug
type Alias = int

//derive:Nope
type Unknown struct{}

//derive:Clone
type Good struct {
	N int
}

//derive:Debug
type Mixed[T any] interface {
	isMixed()
}

type Plain struct{}

func (Plain) isMixed() {}
