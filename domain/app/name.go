package app

const Name = "transit"
