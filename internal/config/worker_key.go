package config

type WorkerKeyStruct struct {
	PersistAnswerEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistAnswerEventsQueue: "persist_answer_events_queue",
}
